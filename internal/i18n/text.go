// Package i18n holds the results page strings for each supported language.
package i18n

import (
	"strconv"
	"strings"

	"homefinder/internal/model"
)

// Keys used by the results page
const (
	KeyLoading               = "loading"
	KeyLoadingSubtext        = "loadingSubtext"
	KeyError                 = "error"
	KeyNoPreferences         = "noPreferences"
	KeyGoBack                = "goBack"
	KeyNoResults             = "noResults"
	KeyTryAgain              = "tryAgain"
	KeyDreamHomeMatches      = "dreamHomeMatches"
	KeyMatchesFound          = "matchesFound"
	KeySearchSummary         = "searchSummary"
	KeyRecommendedProperties = "recommendedProperties"
	KeyFeatures              = "features"
	KeyWhyMatches            = "whyMatchesPreferences"
	KeyContactAgent          = "contactAgent"
	KeyNextSteps             = "nextSteps"
	KeyRefineSearch          = "refineSearch"
	KeyRefineSearchSubtext   = "refineSearchSubtext"
	KeyEditPreferences       = "editPreferences"
	KeySaveResults           = "saveResults"
	KeyLocationRequired      = "locationRequired"
	KeyGenerationFailed      = "generationFailed"
	KeyConfigurationError    = "configurationError"
	KeyAdminHint             = "adminHint"
)

var uiText = map[model.Language]map[string]string{
	model.LanguageEnglish: {
		KeyLoading:               "Finding Your Dream Home",
		KeyLoadingSubtext:        "Our AI is analyzing your preferences and searching for the perfect match...",
		KeyError:                 "Error",
		KeyNoPreferences:         "No preferences found. Please go back and fill out the form.",
		KeyGoBack:                "Go Back",
		KeyNoResults:             "No Results",
		KeyTryAgain:              "No property recommendations were found. Please try with different preferences.",
		KeyDreamHomeMatches:      "Your Dream Home Matches",
		KeyMatchesFound:          "Based on your preferences, our AI has found {count} properties that match your criteria.",
		KeySearchSummary:         "Search Summary",
		KeyRecommendedProperties: "Recommended Properties",
		KeyFeatures:              "Features",
		KeyWhyMatches:            "Why This Matches Your Preferences",
		KeyContactAgent:          "Contact Agent",
		KeyNextSteps:             "Next Steps",
		KeyRefineSearch:          "Refine Your Search",
		KeyRefineSearchSubtext:   "To help us find even better matches, consider answering these additional questions:",
		KeyEditPreferences:       "Edit Preferences",
		KeySaveResults:           "Save These Results",
		KeyLocationRequired:      "Please enter a location",
		KeyGenerationFailed:      "An error occurred while generating recommendations. Please try again.",
		KeyConfigurationError:    "Gemini API key not found. Please check your environment configuration.",
		KeyAdminHint:             "If you're the administrator, please verify your API key is correctly set up.",
	},
	model.LanguageArabic: {
		KeyLoading:               "البحث عن منزل أحلامك",
		KeyLoadingSubtext:        "الذكاء الاصطناعي لدينا يحلل تفضيلاتك ويبحث عن التطابق المثالي...",
		KeyError:                 "خطأ",
		KeyNoPreferences:         "لم يتم العثور على تفضيلات. يرجى العودة وملء النموذج.",
		KeyGoBack:                "عودة",
		KeyNoResults:             "لا توجد نتائج",
		KeyTryAgain:              "لم يتم العثور على توصيات العقارات. يرجى المحاولة بتفضيلات مختلفة.",
		KeyDreamHomeMatches:      "تطابقات منزل أحلامك",
		KeyMatchesFound:          "بناءً على تفضيلاتك، وجد الذكاء الاصطناعي لدينا {count} عقارات تطابق معاييرك.",
		KeySearchSummary:         "ملخص البحث",
		KeyRecommendedProperties: "العقارات الموصى بها",
		KeyFeatures:              "الميزات",
		KeyWhyMatches:            "لماذا يتطابق هذا مع تفضيلاتك",
		KeyContactAgent:          "اتصل بالوكيل",
		KeyNextSteps:             "الخطوات التالية",
		KeyRefineSearch:          "تحسين البحث",
		KeyRefineSearchSubtext:   "لمساعدتنا في العثور على تطابقات أفضل، يرجى الإجابة على هذه الأسئلة الإضافية:",
		KeyEditPreferences:       "تعديل التفضيلات",
		KeySaveResults:           "حفظ هذه النتائج",
		KeyLocationRequired:      "يرجى إدخال الموقع",
		KeyGenerationFailed:      "حدث خطأ أثناء إنشاء التوصيات. يرجى المحاولة مرة أخرى.",
	},
	model.LanguageFrench: {
		KeyLoading:               "Recherche de Votre Maison de Rêve",
		KeyLoadingSubtext:        "Notre IA analyse vos préférences et recherche la correspondance parfaite...",
		KeyError:                 "Erreur",
		KeyNoPreferences:         "Aucune préférence trouvée. Veuillez revenir en arrière et remplir le formulaire.",
		KeyGoBack:                "Retour",
		KeyNoResults:             "Aucun Résultat",
		KeyTryAgain:              "Aucune recommandation de propriété n'a été trouvée. Veuillez essayer avec des préférences différentes.",
		KeyDreamHomeMatches:      "Correspondances de Votre Maison de Rêve",
		KeyMatchesFound:          "Sur la base de vos préférences, notre IA a trouvé {count} propriétés qui correspondent à vos critères.",
		KeySearchSummary:         "Résumé de la Recherche",
		KeyRecommendedProperties: "Propriétés Recommandées",
		KeyFeatures:              "Caractéristiques",
		KeyWhyMatches:            "Pourquoi Cela Correspond à Vos Préférences",
		KeyContactAgent:          "Contacter l'Agent",
		KeyNextSteps:             "Prochaines Étapes",
		KeyRefineSearch:          "Affiner Votre Recherche",
		KeyRefineSearchSubtext:   "Pour nous aider à trouver de meilleures correspondances, veuillez répondre à ces questions supplémentaires :",
		KeyEditPreferences:       "Modifier les Préférences",
		KeySaveResults:           "Enregistrer Ces Résultats",
		KeyLocationRequired:      "Veuillez saisir un emplacement",
		KeyGenerationFailed:      "Une erreur s'est produite lors de la génération des recommandations. Veuillez réessayer.",
	},
}

var suggestions = map[model.Language][]string{
	model.LanguageEnglish: {
		"Refreshing the page and trying again",
		"Using different preferences",
		"Checking back in a few minutes",
		"Browsing our regular property listings instead",
	},
	model.LanguageArabic: {
		"تحديث الصفحة والمحاولة مرة أخرى",
		"استخدام تفضيلات مختلفة",
		"العودة بعد بضع دقائق",
		"تصفح قوائم العقارات العادية لدينا بدلاً من ذلك",
	},
	model.LanguageFrench: {
		"Actualiser la page et réessayer",
		"Utiliser des préférences différentes",
		"Revenir dans quelques minutes",
		"Parcourir plutôt nos annonces immobilières habituelles",
	},
}

func resolve(lang model.Language) model.Language {
	if _, ok := uiText[lang]; ok {
		return lang
	}
	return model.LanguageEnglish
}

// Text returns the string for key in lang, falling back to English
// per key. Unknown keys return the key itself.
func Text(lang model.Language, key string) string {
	if s, ok := uiText[resolve(lang)][key]; ok {
		return s
	}
	if s, ok := uiText[model.LanguageEnglish][key]; ok {
		return s
	}
	return key
}

// Texts returns the full table for lang with English filling any gaps
func Texts(lang model.Language) map[string]string {
	out := make(map[string]string, len(uiText[model.LanguageEnglish]))
	for k, v := range uiText[model.LanguageEnglish] {
		out[k] = v
	}
	for k, v := range uiText[resolve(lang)] {
		out[k] = v
	}
	return out
}

// MatchesFound renders the result count sentence
func MatchesFound(lang model.Language, count int) string {
	return strings.Replace(Text(lang, KeyMatchesFound), "{count}", strconv.Itoa(count), 1)
}

// FallbackSuggestions lists what the user can do after a failure
func FallbackSuggestions(lang model.Language) []string {
	return append([]string(nil), suggestions[resolve(lang)]...)
}

// IsRTL reports whether lang renders right to left
func IsRTL(lang model.Language) bool {
	return lang.IsRTL()
}
