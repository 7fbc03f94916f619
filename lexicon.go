package spamsift

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSaturation is the match count at which the heuristic score
// saturates to 1.0.
const DefaultSaturation = 4

// Lexicon configures the lexical spam heuristic and the spam subcategory
// scan. Patterns are matched case-insensitively as substrings; English and
// Vietnamese patterns live side by side in each list.
type Lexicon struct {
	// Saturation divides the raw match count before clamping to [0,1].
	Saturation float64 `yaml:"saturation"`

	// SpamPatterns feed the overall spam-likelihood score: currency, prize,
	// urgency and link-bait wording.
	SpamPatterns []string `yaml:"spam_patterns"`

	// PromoPatterns identify advertising/promotional spam.
	PromoPatterns []string `yaml:"promo_patterns"`

	// SystemPatterns identify system/security/urgency-styled spam.
	SystemPatterns []string `yaml:"system_patterns"`

	// CurrencyPattern is a regular expression for money amounts; a match
	// counts as one additional spam pattern hit. Empty disables it.
	CurrencyPattern string `yaml:"currency_pattern"`
}

// LoadLexicon reads a Lexicon from a YAML file. Missing fields fall back to
// the defaults.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}

	lex := DefaultLexicon()
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to parse lexicon file %s: %w", path, err)
	}
	if lex.Saturation <= 0 {
		lex.Saturation = DefaultSaturation
	}
	return lex, nil
}

// DefaultLexicon returns the built-in English + Vietnamese lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Saturation:      DefaultSaturation,
		SpamPatterns:    defaultSpamPatterns(),
		PromoPatterns:   defaultPromoPatterns(),
		SystemPatterns:  defaultSystemPatterns(),
		CurrencyPattern: `\$\d+|\d+\$|\d+\s*(triệu|nghìn|đồng|dollar)`,
	}
}

func defaultSpamPatterns() []string {
	return []string{
		// Promotional bait.
		"free", "win", "winner", "cash", "prize", "click", "buy", "cheap",
		"offer", "limited", "urgent", "act now", "subscribe", "risk-free",
		"guarantee", "money back", "trial", "exclusive", "deal",
		"miễn phí", "trúng", "thưởng", "tiền mặt", "nhấp", "khuyến mãi",
		"giới hạn", "khẩn cấp", "bảo đảm", "dùng thử", "độc quyền", "ưu đãi",
		// Urgency framing.
		"today only", "before friday", "reply yes", "cancel anytime",
		"confirm before", "register early",
		"hôm nay", "ngày mai", "trước thứ sáu", "trả lời có",
		// Impersonation and fake-alert hooks.
		"security update", "unusual login", "gift cards", "card was declined",
		"cập nhật bảo mật", "đăng nhập bất thường", "thẻ bị từ chối",
	}
}

func defaultPromoPatterns() []string {
	return []string{
		"free", "win", "winner", "cash", "prize", "click", "buy", "cheap",
		"offer", "limited", "act now", "subscribe", "risk-free", "guarantee",
		"money back", "trial", "exclusive", "deal",
		"miễn phí", "trúng", "thưởng", "tiền mặt", "nhấp", "mua", "rẻ",
		"khuyến mãi", "giới hạn", "đăng ký", "bảo đảm", "dùng thử",
		"độc quyền", "ưu đãi",
	}
}

func defaultSystemPatterns() []string {
	return []string{
		"mom", "boss", "hr", "manager", "security update", "unusual login",
		"hospital bill", "emergency", "help buy", "reimburse", "gift cards",
		"short-staffed", "extra shifts", "card was declined", "warranty",
		"mẹ", "sếp", "nhân sự", "cập nhật bảo mật", "đăng nhập bất thường",
		"viện phí", "khẩn cấp", "giúp mua", "hoàn tiền",
		"thiếu nhân sự", "ca làm thêm", "thẻ bị từ chối", "bảo hành",
	}
}
