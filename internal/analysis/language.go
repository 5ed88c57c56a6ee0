package analysis

// DetectLanguage classifies text by script. Any Cyrillic letter wins over Latin.
func DetectLanguage(text string) Language {
	hasLatin := false
	for _, r := range text {
		switch {
		case r >= '\u0400' && r <= '\u04FF':
			return LangRu
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLatin = true
		}
	}
	if hasLatin {
		return LangUz
	}
	return LangUnsupported
}
