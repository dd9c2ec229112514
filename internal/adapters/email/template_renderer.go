package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// Tags that would make the engine read files other than email.html.
var bannedTags = []string{"include", "extends", "import", "ssi"}

// TemplateConfig holds configuration for the transaction email renderer.
type TemplateConfig struct {
	// Dir is the directory holding email.html.
	Dir string
	// Cache keeps parsed templates between calls, keyed by file path and
	// invalidated when the file's modification time or size changes.
	Cache bool
}

// TransactionRenderer implements domain.TransactionEmailRenderer by reading
// <Dir>/email.html on every call and substituting messageText and
// transactionHash into its {{ }} placeholders.
//
// Placeholders without a value render as empty text and values are HTML
// escaped, the same defaults a Handlebars email template relies on.
type TransactionRenderer struct {
	dir   string
	cache *gocache.Cache

	// mu guards set; TemplateSet.FromBytes mutates the set without locking.
	mu  sync.Mutex
	set *pongo2.TemplateSet
}

type cachedTemplate struct {
	modTime time.Time
	size    int64
	tpl     *pongo2.Template
}

var _ domain.TransactionEmailRenderer = (*TransactionRenderer)(nil)

// NewTransactionRenderer returns a renderer for cfg. An empty Dir is rejected
// with domain.ErrConfigurationMissing. The directory itself is not checked
// here; a missing template surfaces as domain.ErrTemplateIO on Render.
func NewTransactionRenderer(cfg TemplateConfig) (*TransactionRenderer, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("email templates directory: %w", domain.ErrConfigurationMissing)
	}
	loader, err := pongo2.NewLocalFileSystemLoader("")
	if err != nil {
		return nil, fmt.Errorf("create template loader: %w", err)
	}
	set := pongo2.NewSet("transaction-email", loader)
	for _, tag := range bannedTags {
		if err := set.BanTag(tag); err != nil {
			return nil, fmt.Errorf("ban template tag %q: %w", tag, err)
		}
	}
	r := &TransactionRenderer{dir: cfg.Dir, set: set}
	if cfg.Cache {
		r.cache = gocache.New(gocache.NoExpiration, 0)
	}
	return r, nil
}

// Render loads email.html and returns it with messageText and transactionHash
// substituted. The returned string is empty whenever err is non-nil.
func (r *TransactionRenderer) Render(ctx context.Context, messageText, transactionHash string) (string, error) {
	if r == nil || r.dir == "" || r.set == nil {
		return "", fmt.Errorf("email templates directory: %w", domain.ErrConfigurationMissing)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(r.dir, domain.EmailTemplateFile)

	tpl, err := r.template(path)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(pongo2.Context{
		domain.TemplateKeyMessageText:     messageText,
		domain.TemplateKeyTransactionHash: transactionHash,
	})
	if err != nil {
		return "", fmt.Errorf("execute %s: %w: %v", path, domain.ErrTemplateRender, err)
	}
	return out, nil
}

func (r *TransactionRenderer) template(path string) (*pongo2.Template, error) {
	if r.cache == nil {
		raw, err := readTemplate(path)
		if err != nil {
			return nil, err
		}
		return r.parse(path, raw)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %v", path, domain.ErrTemplateIO, err)
	}
	if v, ok := r.cache.Get(path); ok {
		c := v.(*cachedTemplate)
		if c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
			return c.tpl, nil
		}
	}
	raw, err := readTemplate(path)
	if err != nil {
		return nil, err
	}
	tpl, err := r.parse(path, raw)
	if err != nil {
		r.cache.Delete(path)
		return nil, err
	}
	r.cache.Set(path, &cachedTemplate{modTime: info.ModTime(), size: info.Size(), tpl: tpl}, gocache.NoExpiration)
	return tpl, nil
}

func (r *TransactionRenderer) parse(path string, raw []byte) (*pongo2.Template, error) {
	r.mu.Lock()
	tpl, err := r.set.FromBytes(raw)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, domain.ErrTemplateRender, err)
	}
	return tpl, nil
}

func readTemplate(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", path, domain.ErrTemplateIO, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("read %s: %w: not valid UTF-8", path, domain.ErrTemplateIO)
	}
	return raw, nil
}
