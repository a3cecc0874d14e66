package reply

const (
	startText = "👋 ¡Hola! Soy Pulsett Bot 🤖. Envíame un mensaje, una nota de voz o una foto y te acompaño."

	helpText = "🧠 *Comandos disponibles:*\n\n" +
		"/start - Iniciar conversación\n" +
		"/help - Mostrar ayuda\n\n" +
		"Podés enviarme texto, audio o imágenes para analizar 😊"

	greetingText = "👋 ¡Hola! ¿Cómo estás hoy? Contame lo que quieras, te leo."

	farewellText = "👋 Parece que te fuiste un rato. Cuando quieras seguimos charlando. ¡Cuidate mucho!"

	lonelinessText = "💙 Sentirse así de aislado duele mucho. En esta conversación no estás sin nadie: acá estoy. " +
		"¿Hay alguien de confianza con quien puedas hablar hoy?"

	moodDownText = "😕 Noto que tu ánimo cambió desde hace un rato. ¿Pasó algo? Podés contarme."

	moodUpText = "🌈 ¡Qué bueno notar que te sentís mejor que antes! Seguí así, paso a paso."

	voiceRetryText = "😕 No pude entender bien tu audio. ¿Podés intentar hablar un poco más cerca del micrófono o escribirme por texto?"

	visionRetryText = "😕 No pude analizar bien la imagen. ¿Podés intentar con otra foto con mejor luz?"

	visionUncertainText = "🤔 No estoy seguro de qué emoción muestra la imagen. ¿Vos cómo te sentís?"
)

var positivePool = []string{
	"😊 ¡Qué bueno leer eso! Contame más.",
	"🌟 Me alegra mucho que te sientas así.",
	"🙌 ¡Esa energía está buenísima! ¿Qué te puso de tan buen humor?",
}

var negativePool = []string{
	"💙 Lamento que estés pasando por esto. Estoy acá para escucharte.",
	"🫂 Suena difícil. ¿Querés contarme un poco más?",
	"💬 Gracias por contarme cómo te sentís. No tenés que atravesarlo en silencio.",
}

var neutralPool = []string{
	"🤔 No tengo una respuesta exacta para eso todavía, pero estoy acá para escucharte 💬",
	"👀 Te leo. ¿Cómo te sentís hoy?",
	"💭 Contame un poco más así te entiendo mejor.",
}

var greetings = []string{
	"hola", "holi", "holis", "buenas", "buen dia", "buen día", "buenos dias",
	"buenos días", "buenas tardes", "buenas noches", "hey", "saludos",
	"que tal", "qué tal",
}

var visionReplies = map[string]string{
	"happy":    "😊 ¡Se te ve feliz en la foto! Me encanta.",
	"sad":      "💙 Te noto triste en la imagen. ¿Querés hablar de lo que te pasa?",
	"angry":    "😤 Parecés enojado. Respirar hondo a veces ayuda; si querés, contame qué pasó.",
	"surprise": "😮 ¡Qué cara de sorpresa! ¿Qué pasó?",
	"fear":     "😟 Se te ve con miedo. Estoy acá, ¿qué te preocupa?",
	"disgust":  "😖 Algo no te gustó nada, ¿no? Contame.",
	"neutral":  "🙂 Te veo tranquilo. ¿Cómo va tu día?",
	"unknown":  "🤔 No logro distinguir una cara en la imagen. ¿Probás con otra foto?",
}

var visionAliases = map[string]string{
	"happiness": "happy",
	"joy":       "happy",
	"sadness":   "sad",
	"anger":     "angry",
	"surprised": "surprise",
	"scared":    "fear",
	"fearful":   "fear",
	"disgusted": "disgust",
	"calm":      "neutral",
}
