package usecase

// Vocabularies are stored folded (Turkish lowercase, NFKC).

var retrievalDomainTerms = []string{
	"hadis", "hadith", "peygamber", "rasul", "sahabe", "rivayet",
	"buhari", "müslim", "tirmizi", "ebu davud", "nesai", "ibn mace",
	"sünnet", "hadis-i şerif", "rivayette", "nakledilir",
}

var practiceTerms = []string{
	"namaz", "oruç", "zekât", "hac", "abdest", "gusül", "temizlik",
	"dua", "zikir", "tövbe", "istiğfar", "salavat", "tesbih",
	"helal", "haram", "mekruh", "müstehab", "farz", "vacip",
	"allah", "peygamber", "islam", "iman", "ihsan", "takva",
}

// highValueTerms survive stopword stripping when nothing else does.
var highValueTerms = []string{
	"namaz", "oruç", "zekât", "zekat", "hac", "abdest", "gusül",
	"dua", "kurban", "sadaka", "umre", "teravih",
}

var lexicalStopwords = map[string]struct{}{
	// Turkish connectors and question particles.
	"ve": {}, "ile": {}, "veya": {}, "ya": {}, "da": {}, "de": {}, "ki": {},
	"bu": {}, "şu": {}, "o": {}, "bir": {}, "için": {}, "gibi": {}, "kadar": {},
	"mi": {}, "mı": {}, "mu": {}, "mü": {}, "midir": {}, "mıdır": {}, "mudur": {}, "müdür": {},
	"ne": {}, "neden": {}, "nedir": {}, "nasıl": {}, "niçin": {}, "hangi": {},
	"var": {}, "yok": {}, "olan": {}, "olarak": {}, "olur": {}, "ilgili": {}, "hakkında": {},
	"bana": {}, "beni": {}, "ben": {}, "biz": {}, "siz": {}, "sen": {},
	"lütfen": {}, "söyle": {}, "anlat": {}, "açıkla": {}, "nelerdir": {},
	// English connectors.
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "what": {}, "about": {},
	"of": {}, "and": {}, "or": {}, "in": {}, "on": {}, "to": {}, "for": {}, "how": {},
	// Retrieval meta-words: every record is a hadith, so they match everything.
	"hadis": {}, "hadisi": {}, "hadisler": {}, "hadisleri": {}, "hadislerde": {},
	"hadith": {}, "hadiths": {}, "kaynak": {}, "kaynağı": {}, "kaynaklar": {},
	"source": {},
}

var greetings = map[string]struct{}{
	"selam":           {},
	"merhaba":         {},
	"merhabalar":      {},
	"selamünaleyküm":  {},
	"selamun aleyküm": {},
	"selamün aleyküm": {},
	"hello":           {},
	"hi":              {},
}

// genericAnswerPhrases mark answers that only steer the user. They carry no
// citable content, so text sources are suppressed for them.
var genericAnswerPhrases = []string{
	"sorunuzu daha açık yazar mısınız",
	"daha detaylı bir soru sormanız gerekmektedir",
	"yardımcı olabilmem için belirtir misiniz",
	"örnek olarak",
	"kaynak: muteber fıkıh kaynakları",
	"daha alakalı hadisler için sorunuzu netleştirmeniz gerekmektedir",
}

// echoMarkers flag provider output that repeats or acknowledges its instructions.
var (
	echoContainsMarkers = []string{"resmi yapay zeka asistanı", "bundan sonra"}
	echoPrefixMarkers   = []string{"anlaşıldı"}
)
