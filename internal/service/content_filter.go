package service

import (
	"regexp"
	"strings"

	"inkshelf/internal/models"
)

// Violation is the first rule a piece of text breaks.
type Violation string

const (
	ViolationNone         Violation = ""
	ViolationHateSpeech   Violation = "hate_speech"
	ViolationProfanity    Violation = "inappropriate_language"
	ViolationURL          Violation = "url_not_allowed"
	ViolationContactInfo  Violation = "contact_info_not_allowed"
	ViolationSpam         Violation = "spam_detected"
	ViolationExcessiveCap Violation = "excessive_caps"
)

// DefaultProfanityTerms is used when no terms are configured.
var DefaultProfanityTerms = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
}

// DefaultSpamTerms always count as spam.
var DefaultSpamTerms = []string{"scam", "scammer", "phishing", "malware"}

var rejectionMessages = map[Violation]string{
	ViolationHateSpeech:   "Your text contains hateful language.",
	ViolationProfanity:    "Your text contains inappropriate language.",
	ViolationURL:          "URLs and web links are not allowed.",
	ViolationContactInfo:  "Contact information is not allowed.",
	ViolationSpam:         "Your text appears to be spam.",
	ViolationExcessiveCap: "Please avoid using excessive capital letters.",
}

// Message is the user-facing rejection text.
func (v Violation) Message() string {
	if v == ViolationNone {
		return ""
	}
	if msg, ok := rejectionMessages[v]; ok {
		return msg
	}
	return "Your text does not meet our content guidelines."
}

// Strike maps a violation to the strike it earns. Excessive caps is
// rejected without a strike.
func (v Violation) Strike() (models.StrikeReason, models.StrikeSeverity, bool) {
	switch v {
	case ViolationHateSpeech:
		return models.StrikeReasonHateSpeech, models.StrikeSeveritySevere, true
	case ViolationProfanity:
		return models.StrikeReasonProfanity, models.StrikeSeverityModerate, true
	case ViolationURL, ViolationContactInfo, ViolationSpam:
		return models.StrikeReasonSpam, models.StrikeSeverityMinor, true
	}
	return "", "", false
}

// ContentFilter screens user text with word lists and pattern rules.
// It is immutable after construction and safe for concurrent use.
type ContentFilter struct {
	hate         []*regexp.Regexp
	profanity    []*regexp.Regexp
	spam         []*regexp.Regexp
	url          *regexp.Regexp
	email        *regexp.Regexp
	phone        *regexp.Regexp
	repeatedChar *regexp.Regexp
	allCaps      *regexp.Regexp
}

// NewContentFilter compiles the term lists. An empty profanity list falls
// back to DefaultProfanityTerms; hate terms have no default.
func NewContentFilter(profanityTerms, hateTerms []string) *ContentFilter {
	if len(profanityTerms) == 0 {
		profanityTerms = DefaultProfanityTerms
	}
	return &ContentFilter{
		hate:         compileTerms(hateTerms),
		profanity:    compileTerms(profanityTerms),
		spam:         compileTerms(DefaultSpamTerms),
		url:          regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		email:        regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`),
		phone:        regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
		repeatedChar: repeatedCharPattern(),
		allCaps:      regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
}

// Check returns the most severe violation in text, or ViolationNone.
func (f *ContentFilter) Check(text string) Violation {
	if strings.TrimSpace(text) == "" {
		return ViolationNone
	}
	switch {
	case matchAny(f.hate, text):
		return ViolationHateSpeech
	case matchAny(f.profanity, text):
		return ViolationProfanity
	case f.url.MatchString(text):
		return ViolationURL
	case f.email.MatchString(text), f.phone.MatchString(text):
		return ViolationContactInfo
	case matchAny(f.spam, text), f.repeatedChar.MatchString(text):
		return ViolationSpam
	case len(f.allCaps.FindAllString(text, -1)) > 2:
		return ViolationExcessiveCap
	}
	return ViolationNone
}

func compileTerms(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return out
}

// repeatedCharPattern matches four or more of the same letter or
// punctuation mark. RE2 has no backreferences, so each one is spelled out.
func repeatedCharPattern() *regexp.Regexp {
	parts := make([]string, 0, 29)
	for c := 'a'; c <= 'z'; c++ {
		parts = append(parts, string(c)+"{4,}")
	}
	parts = append(parts, `!{4,}`, `\?{4,}`, `\.{4,}`)
	return regexp.MustCompile(`(?i)(` + strings.Join(parts, "|") + `)`)
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
