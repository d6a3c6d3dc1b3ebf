package extract

// parsingPrompt is the single-shot extraction prompt. The first argument is
// the current date (YYYY-MM-DD) used to resolve relative dates, the second
// is the normalized incident text.
const parsingPrompt = `Extract incident information from the following description and return ONLY a valid JSON object with these exact fields:

- data_ocorrencia: Date and time in YYYY-MM-DD HH:MM format (if only date mentioned, use 00:00 for time. If relative time like "ontem" (yesterday), "hoje" (today), calculate based on current date %s)
- local: Location where incident occurred
- tipo_incidente: Type/category of incident
- impacto: Impact description including duration and affected systems

Description: "%s"

Return ONLY the JSON object, no other text:`
