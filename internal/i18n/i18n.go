package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const DefaultLocale = "ko"

// SupportedLocales là các mã locale dùng làm tiền tố URL, theo thứ tự hiển thị.
var SupportedLocales = []string{"ko", "en", "vi"}

var tags = map[string]language.Tag{
	"ko": language.Korean,
	"en": language.English,
	"vi": language.Vietnamese,
}

// Tên hiển thị của từng ngôn ngữ, luôn viết bằng chính ngôn ngữ đó.
var localeLabels = map[string]string{
	"ko": "한국어",
	"en": "English",
	"vi": "Tiếng Việt",
}

//go:embed locales/*.json
var localesFS embed.FS

// Bundle chứa catalog x/text đã nạp cho tất cả locale.
type Bundle struct {
	catalog *catalog.Builder
	keys    map[string]map[string]struct{}
}

var defaultBundle = mustLoad()

func mustLoad() *Bundle {
	b, err := LoadFromFS(localesFS)
	if err != nil {
		panic(err)
	}
	return b
}

// Default trả về bundle được nhúng trong binary.
func Default() *Bundle {
	return defaultBundle
}

// LoadFromFS nạp các file locales/<code>.json và đăng ký vào một catalog riêng.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{
		catalog: catalog.NewBuilder(catalog.Fallback(tags[DefaultLocale])),
		keys:    map[string]map[string]struct{}{},
	}
	for _, code := range SupportedLocales {
		file := path.Join("locales", code+".json")
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", file, err)
		}
		b.keys[code] = map[string]struct{}{}
		for key, value := range messages {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("catalog %s: message key cannot be blank", file)
			}
			if err := b.catalog.SetString(tags[code], key, value); err != nil {
				return nil, fmt.Errorf("catalog %s: set %q: %w", file, key, err)
			}
			b.keys[code][key] = struct{}{}
		}
	}
	return b, nil
}

// Keys trả về tập key của một locale (dùng để kiểm tra catalog đầy đủ).
func (b *Bundle) Keys(code string) map[string]struct{} {
	return b.keys[code]
}

// Printer trả về message printer cho locale; locale không hỗ trợ dùng mặc định.
func (b *Bundle) Printer(code string) *message.Printer {
	return message.NewPrinter(Tag(code), message.Catalog(b.catalog))
}

// T dịch một key. Key không có trong catalog được trả về nguyên văn.
func (b *Bundle) T(code, key string, args ...any) string {
	return b.Printer(code).Sprintf(key, args...)
}

// IsSupported kiểm tra khớp chính xác với một mã locale được hỗ trợ.
func IsSupported(code string) bool {
	_, ok := tags[code]
	return ok
}

// Normalize trả về code nếu được hỗ trợ, ngược lại trả về DefaultLocale.
func Normalize(code string) string {
	if IsSupported(code) {
		return code
	}
	return DefaultLocale
}

func Tag(code string) language.Tag {
	return tags[Normalize(code)]
}

func Label(code string) string {
	return localeLabels[Normalize(code)]
}
