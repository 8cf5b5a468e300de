package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	reNonDigit  = regexp.MustCompile(`\D`)
	reDate      = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)
	reAmount    = regexp.MustCompile(`[\d.\s]+,\d{2}`)
	reCanonical = regexp.MustCompile(`^\d+\.\d{2}$`)
	reLeadJunk  = regexp.MustCompile(`^[^A-Z0-9]+`)
	reOCRPrefix = regexp.MustCompile(`^(FR\.|IR\.|LR\.|_?\?)\s*`)
	reCodLabel  = regexp.MustCompile(`COD\.?\s*\d+`)
	reNameRun   = regexp.MustCompile(`[A-Z0-9ÁÉÍÓÚÜ][A-Z0-9ÁÉÍÓÚÜ ,.-]+`)
	reDigitRun  = regexp.MustCompile(`\d+`)
	reTypeChar  = regexp.MustCompile(`[ABC]`)
)

// Date layouts tried in order; the first one that parses wins.
var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02", "2006/01/02"}

// NormalizeCUIT extracts an 11-digit CUIT from noisy text and formats it as
// XX-XXXXXXXX-X. With any other digit count the trimmed input is returned
// unchanged: OCR sometimes drops a leading digit and guessing would be worse
// than passing the noise through.
func NormalizeCUIT(text string) string {
	if text == "" {
		return ""
	}

	digits := reNonDigit.ReplaceAllString(text, "")
	if len(digits) == 11 {
		return digits[0:2] + "-" + digits[2:10] + "-" + digits[10:11]
	}

	return strings.TrimSpace(text)
}

// NormalizeDate finds a date inside surrounding noise and re-renders it as
// DD/MM/YYYY. Unparsable input is passed through trimmed.
func NormalizeDate(text string) string {
	if text == "" {
		return ""
	}

	text = strings.TrimSpace(text)
	if m := reDate.FindString(text); m != "" {
		text = m
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, text); err == nil {
			return dt.Format("02/01/2006")
		}
	}

	return text
}

// NormalizeAmount converts an Argentine-formatted amount ("." thousands, ","
// decimals, optional labels like "TOTAL $") to a plain decimal string with
// two places. Text already in canonical form is returned as-is so the
// normalizer is idempotent.
func NormalizeAmount(text string) string {
	if text == "" {
		return ""
	}

	if t := strings.TrimSpace(text); reCanonical.MatchString(t) {
		return t
	}

	if m := reAmount.FindString(text); m != "" {
		text = m
	}

	t := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, ",", ".")

	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	return strings.TrimSpace(text)
}

// NormalizeCompanyName cleans a company name out of OCR noise: uppercase,
// strip hallucinated line-start prefixes and "COD. nnn" fragments bleeding in
// from adjacent regions, then keep the longest run of clean name characters.
func NormalizeCompanyName(text string) string {
	if text == "" {
		return ""
	}

	t := strings.ToUpper(text)
	t = reLeadJunk.ReplaceAllString(t, "")
	t = reOCRPrefix.ReplaceAllString(t, "")
	t = reCodLabel.ReplaceAllString(t, "")

	matches := reNameRun.FindAllString(t, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(t)
	}

	name := longestRun(matches)
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeInvoiceNumber keeps the longest digit run: point-of-sale prefixes
// and check digits tend to be shorter than the invoice number itself.
func NormalizeInvoiceNumber(text string) string {
	if text == "" {
		return ""
	}

	runs := reDigitRun.FindAllString(text, -1)
	if len(runs) == 0 {
		return strings.TrimSpace(text)
	}

	return longestRun(runs)
}

// NormalizeInvoiceType returns the invoice-type letter A, B or C. "COD. nnn"
// labels are removed first so their letters are never mistaken for the type.
func NormalizeInvoiceType(text string) string {
	if text == "" {
		return ""
	}

	t := strings.ToUpper(text)
	t = reCodLabel.ReplaceAllString(t, "")

	return reTypeChar.FindString(t)
}

// longestRun picks the longest match, keeping the first on ties.
func longestRun(matches []string) string {
	best := matches[0]
	bestLen := utf8.RuneCountInString(best)
	for _, m := range matches[1:] {
		if n := utf8.RuneCountInString(m); n > bestLen {
			best, bestLen = m, n
		}
	}
	return best
}
