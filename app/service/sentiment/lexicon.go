package sentiment

var positiveWords = []string{
	"feliz", "alegre", "contento", "contenta", "bien", "motivado", "motivada",
	"tranquilo", "tranquila", "animado", "animada", "entusiasmado", "entusiasmada",
	"agradecido", "agradecida", "optimista", "positivo", "satisfecho", "satisfecha",
	"genial", "excelente", "perfecto", "maravilloso", "increíble",
}

var negativeWords = []string{
	"triste", "mal", "deprimido", "deprimida", "angustiado", "angustiada",
	"ansioso", "ansiosa", "estresado", "estresada", "cansado", "cansada",
	"nervioso", "nerviosa", "solo", "sola", "soledad", "miedo", "asustado",
	"asustada", "preocupado", "preocupada", "enojado", "enojada", "frustrado",
	"frustrada", "abrumado", "abrumada", "tristeza", "pena", "dolor",
	"murió", "murio", "falleció", "fallecio", "perdí", "perdi", "pérdida",
	"perdida", "duelo",
}

// lonelinessWords is a subset of the negative lexicon that gets its own reply.
var lonelinessWords = []string{
	"solo", "sola", "soledad", "aislado", "aislada", "nadie",
}

func PositiveWords() []string {
	return append([]string(nil), positiveWords...)
}

func NegativeWords() []string {
	return append([]string(nil), negativeWords...)
}

func LonelinessWords() []string {
	return append([]string(nil), lonelinessWords...)
}
