package prompt

import (
	"text/template"

	"homefinder/internal/model"
)

// jsonGuide describes the reply shape; it is identical for every language.
const jsonGuide = `{
  "recommendations": [
    {
      "id": "string",
      "title": "string",
      "address": "string",
      "price": number,
      "bedrooms": number,
      "bathrooms": number,
      "squareFeet": number,
      "propertyType": "string",
      "yearBuilt": number,
      "features": ["string"],
      "matchScore": number (1-100),
      "reasonsForMatch": ["string"],
      "imageUrl": "string"
    }
  ],
  "searchSummary": "string",
  "nextSteps": ["string"],
  "additionalQuestions": ["string"]
}`

const englishInstructions = `As a real estate AI assistant, provide property recommendations based on the following preferences:

Location: {{.Location}}
Budget: {{.MinBudget}} - {{.MaxBudget}}
Bedrooms: {{.Bedrooms}}
Bathrooms: {{.Bathrooms}}
Property Type: {{.PropertyType}}
Must-Have Features: {{.MustHaveFeatures}}
Preferred Features: {{.PreferredFeatures}}
Timeframe: {{.Timeframe}}
Additional Information: {{.AdditionalInfo}}

Please provide output in the following JSON structure with only the JSON output and nothing else:
{{.JSONStructure}}

Provide 3-5 property recommendations with realistic details. Each property should have 3-5 reasons why it's a good match.
Include a search summary explaining your approach, 2-3 next steps the user could take, and 2-3 additional questions to refine the search.
`

const arabicInstructions = `كمساعد ذكاء اصطناعي متخصص في العقارات، قدم توصيات العقارات بناءً على التفضيلات التالية:

الموقع: {{.Location}}
الميزانية: {{.MinBudget}} - {{.MaxBudget}}
غرف النوم: {{.Bedrooms}}
الحمامات: {{.Bathrooms}}
نوع العقار: {{.PropertyType}}
الميزات الضرورية: {{.MustHaveFeatures}}
الميزات المفضلة: {{.PreferredFeatures}}
الإطار الزمني: {{.Timeframe}}
معلومات إضافية: {{.AdditionalInfo}}

يرجى تقديم المخرجات في هيكل JSON التالي مع إخراج JSON فقط وليس أي شيء آخر:
{{.JSONStructure}}

قدم 3-5 توصيات عقارية بتفاصيل واقعية. يجب أن يكون لكل عقار 3-5 أسباب توضح سبب كونه مناسبًا.
قم بتضمين ملخص للبحث يشرح نهجك، و2-3 خطوات تالية يمكن للمستخدم اتخاذها، و2-3 أسئلة إضافية لتحسين البحث.
`

const frenchInstructions = `En tant qu'assistant immobilier IA, fournissez des recommandations de propriétés basées sur les préférences suivantes:

Emplacement: {{.Location}}
Budget: {{.MinBudget}} - {{.MaxBudget}}
Chambres: {{.Bedrooms}}
Salles de bain: {{.Bathrooms}}
Type de propriété: {{.PropertyType}}
Caractéristiques essentielles: {{.MustHaveFeatures}}
Caractéristiques préférées: {{.PreferredFeatures}}
Délai: {{.Timeframe}}
Informations supplémentaires: {{.AdditionalInfo}}

Veuillez fournir la sortie dans la structure JSON suivante avec uniquement la sortie JSON et rien d'autre:
{{.JSONStructure}}

Fournissez 3 à 5 recommandations de propriétés avec des détails réalistes. Chaque propriété doit avoir 3 à 5 raisons pour lesquelles elle correspond bien.
Incluez un résumé de recherche expliquant votre approche, 2-3 prochaines étapes que l'utilisateur pourrait prendre, et 2-3 questions supplémentaires pour affiner la recherche.
`

var templates = map[model.Language]Template{
	model.LanguageEnglish: newTemplate(model.LanguageEnglish, englishInstructions),
	model.LanguageArabic:  newTemplate(model.LanguageArabic, arabicInstructions),
	model.LanguageFrench:  newTemplate(model.LanguageFrench, frenchInstructions),
}

func newTemplate(lang model.Language, instructions string) Template {
	return Template{
		Language:     lang,
		Instructions: template.Must(template.New(string(lang)).Option("missingkey=error").Parse(instructions)),
		JSONGuide:    jsonGuide,
	}
}
