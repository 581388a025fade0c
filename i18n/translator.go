package i18n

// Translator retrieves localized messages for validation keywords.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(keyword string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(keyword string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch keyword {
		case "type":
			return "型が不正です"
		case "enum":
			return "許可された値ではありません"
		case "const":
			return "固定値と一致しません"
		case "required":
			return "必須プロパティが不足しています"
		case "pattern":
			return "パターンに一致しません"
		case "format":
			return "フォーマットが不正です"
		case "oneOf":
			return "複数の候補に一致しました"
		case "anyOf":
			return "どの候補にも一致しません"
		case "not":
			return "許可されないスキーマに一致しました"
		case "uniqueItems":
			return "要素が重複しています"
		case "minimum":
			return "値が小さすぎます"
		case "maximum":
			return "値が大きすぎます"
		case "multipleOf":
			return "倍数ではありません"
		case "minLength":
			return "文字列が短すぎます"
		case "maxLength":
			return "文字列が長すぎます"
		case "minItems":
			return "要素数が少なすぎます"
		case "maxItems":
			return "要素数が多すぎます"
		case "minProperties":
			return "プロパティ数が少なすぎます"
		case "maxProperties":
			return "プロパティ数が多すぎます"
		}
	default: // "en"
		switch keyword {
		case "type":
			return "invalid type"
		case "enum":
			return "value not in enumeration"
		case "const":
			return "value does not match constant"
		case "required":
			return "required property missing"
		case "pattern":
			return "value does not match pattern"
		case "format":
			return "invalid format"
		case "oneOf":
			return "value matches more than one schema"
		case "anyOf":
			return "value matches none of the schemas"
		case "not":
			return "value matches disallowed schema"
		case "uniqueItems":
			return "duplicate array items"
		case "minimum":
			return "value below minimum"
		case "maximum":
			return "value above maximum"
		case "multipleOf":
			return "value is not a multiple"
		case "minLength":
			return "string too short"
		case "maxLength":
			return "string too long"
		case "minItems":
			return "too few items"
		case "maxItems":
			return "too many items"
		case "minProperties":
			return "too few properties"
		case "maxProperties":
			return "too many properties"
		}
	}
	return keyword
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given keyword using the current Translator.
func T(keyword string, data map[string]string) string {
	return currentTranslator.Message(keyword, data)
}
