// Package dvb translates the free-text categories used by the guide into the
// ETSI DVB content categories understood by most TV software.
//
// Based on https://github.com/tvheadend/tvheadend/blob/master/src/epg.c and
// ETSI EN 300 468. Deviations from the ETSI list follow the TVHeadend source.
package dvb

import (
	"strings"
	"sync"
)

// Entry maps one source label onto its taxonomy slot.
type Entry struct {
	Category string
	Group    string
	Weight   int
}

// Label weights. The guide categories are subjectively curated: a label like
// "misdaad" could mean a current affairs programme about crime or a crime
// movie. The three tiers keep a single specific label dominant over any pile
// of weak ones.
const (
	WeightDirect = 101 // unambiguous label, always wins its tier
	WeightGroup  = 51  // indicative of the group, weaker than a direct label
	WeightOnly   = 1   // last-resort hint
)

type weightedLabel struct {
	label  string
	weight int
}

type taxonomyCategory struct {
	name   string
	labels []weightedLabel
}

type taxonomyGroup struct {
	name       string
	categories []taxonomyCategory
}

// etsiMap keeps the taxonomy in its curated hierarchical form. Order matters:
// a label assigned twice takes the last assignment.
var etsiMap = []taxonomyGroup{
	{name: "Movie/Drama", categories: []taxonomyCategory{ // 0x01
		{name: "movie/drama", labels: []weightedLabel{ // (general)
			{"actie", WeightGroup},
			{"drama", WeightDirect},
			{"dramaseries", WeightDirect},
			{"film", WeightDirect},
			{"miniseries", WeightGroup},
			{"misdaaddrama", WeightDirect},
		}},
		{name: "detective/thriller", labels: []weightedLabel{
			{"thriller", WeightDirect},
			{"mysterie", WeightDirect},
		}},
		{name: "adventure/western/war", labels: []weightedLabel{
			{"avontuur", WeightDirect},
			{"oorlog", WeightGroup},
			{"western", WeightDirect},
		}},
		{name: "science fiction/fantasy/horror", labels: []weightedLabel{
			{"fantasy", WeightDirect},
			{"horror", WeightDirect},
			{"sciencefiction", WeightDirect},
		}},
		{name: "comedy", labels: []weightedLabel{
			{"komedie", WeightDirect},
			{"romantische komedie", WeightDirect},
			{"sitcoms", WeightDirect},
			{"zwarte komedie", WeightDirect},
		}},
		{name: "soap/melodrama/folkloric", labels: []weightedLabel{
			{"soap", WeightDirect},
		}},
		{name: "romance", labels: []weightedLabel{
			{"romantiek", WeightDirect},
		}},
		{name: "serious/classical/religious/historical movie/drama", labels: []weightedLabel{
			{"historisch drama", WeightDirect},
		}},
		{name: "adult movie/drama"},
	}},
	{name: "News/Current affairs", categories: []taxonomyCategory{ // 0x02
		{name: "news/current affairs", labels: []weightedLabel{ // (general)
			{"actualiteit", WeightDirect},
			{"actualiteitenprogramma's", WeightDirect},
			{"misdaad", WeightOnly},
		}},
		{name: "news/weather report", labels: []weightedLabel{
			{"nieuws", WeightDirect},
			{"weer", WeightDirect},
		}},
		{name: "news magazine"},
		{name: "documentary", labels: []weightedLabel{
			{"documentaire", WeightDirect},
		}},
		{name: "discussion/interview/debate", labels: []weightedLabel{
			{"debat", WeightDirect},
			{"interview", WeightDirect},
		}},
	}},
	{name: "Show/Game show", categories: []taxonomyCategory{ // 0x03
		{name: "show/game show", labels: []weightedLabel{ // (general)
			{"awards", WeightDirect},
			{"entertainment", WeightOnly},
			{"event", WeightOnly},
			{"standup komedie", WeightDirect},
			{"veiling", WeightDirect},
		}},
		{name: "game show/quiz/contest", labels: []weightedLabel{
			{"reality-competitie", WeightDirect},
			{"spelshow", WeightDirect},
		}},
		{name: "variety show", labels: []weightedLabel{
			{"variété", WeightDirect},
		}},
		{name: "talk show", labels: []weightedLabel{
			{"sporttalkshow", WeightDirect},
			{"talkshow", WeightDirect},
		}},
	}},
	{name: "Sports", categories: []taxonomyCategory{ // 0x04
		{name: "sports", labels: []weightedLabel{ // (general)
			{"extreme sporten", WeightDirect},
			{"sport", WeightDirect},
			{"golf", WeightDirect},
			{"stierenvechten", WeightDirect},
			{"vliegsport", WeightDirect},
			{"wielrennen", WeightDirect},
		}},
		{name: "special events (olympic games, world cup, etc.)", labels: []weightedLabel{
			{"multisportevenement", WeightDirect},
			{"olympische spelen", WeightDirect},
		}},
		{name: "sports magazines"},
		{name: "football/soccer", labels: []weightedLabel{
			{"american football", WeightDirect},
			{"voetbal", WeightDirect},
		}},
		{name: "tennis/squash", labels: []weightedLabel{
			{"tennis", WeightDirect},
		}},
		{name: "team sports (excluding football)", labels: []weightedLabel{
			{"rugby", WeightDirect},
			{"rugby league", WeightDirect},
		}},
		{name: "athletics"},
		{name: "motor sport", labels: []weightedLabel{
			{"motorsport", WeightDirect},
		}},
		{name: "water sport", labels: []weightedLabel{
			{"duiken", WeightDirect},
			{"varen", WeightDirect},
		}},
		{name: "winter sports", labels: []weightedLabel{
			{"skiën", WeightDirect},
		}},
		{name: "equestrian"},
		{name: "martial sports"},
	}},
	{name: "Children's/Youth programmes", categories: []taxonomyCategory{ // 0x05
		{name: "children's / youth programs", labels: []weightedLabel{ // (general)
			{"kids en familie", WeightDirect},
			{"kinderen", WeightDirect},
		}},
		{name: "pre-school children's programs"},
		{name: "entertainment programs for 6 to 14"},
		{name: "entertainment programs for 10 to 16"},
		{name: "informational/educational/school programs"},
		{name: "cartoons/puppets", labels: []weightedLabel{
			{"animatie", WeightDirect},
			{"anime", WeightDirect},
		}},
	}},
	{name: "Music/Ballet/Dance", categories: []taxonomyCategory{ // 0x06
		{name: "music/ballet/dance", labels: []weightedLabel{ // (general)
			{"muziek", WeightDirect},
		}},
		{name: "rock/pop"},
		{name: "serious music/classical music"},
		{name: "folk/traditional music"},
		{name: "jazz"},
		{name: "musical/opera", labels: []weightedLabel{
			{"musical", WeightDirect},
			{"opera", WeightDirect},
		}},
		{name: "ballet", labels: []weightedLabel{
			{"ballet", WeightDirect},
		}},
	}},
	{name: "Arts/Culture (without music)", categories: []taxonomyCategory{ // 0x07
		{name: "arts/culture (without music)", labels: []weightedLabel{ // (general)
			{"beeldende kunst", WeightDirect},
			{"bloemlezing", WeightDirect},
			{"kunstnijverheid", WeightDirect},
		}},
		{name: "performing arts", labels: []weightedLabel{
			{"cheerleading", WeightDirect},
			{"dans", WeightDirect},
			{"podiumkunsten", WeightDirect},
			{"theater", WeightDirect},
		}},
		{name: "fine arts"},
		{name: "religion", labels: []weightedLabel{
			{"religie", WeightDirect},
		}},
		{name: "popular culture/traditional arts"},
		{name: "literature", labels: []weightedLabel{
			{"boeken & literatuur", WeightDirect},
		}},
		{name: "film/cinema"},
		{name: "experimental film/video"},
		{name: "broadcasting/press"},
		{name: "new media"},
		{name: "arts magazines/culture magazines"},
		{name: "fashion", labels: []weightedLabel{
			{"mode", WeightDirect},
		}},
	}},
	{name: "Social/Political issues/Economics", categories: []taxonomyCategory{ // 0x08
		{name: "social/political issues/economics", labels: []weightedLabel{ // (general)
			{"business & financial", WeightDirect},
			{"consumentenprogramma's", WeightOnly},
			{"goede doelen", WeightDirect},
			{"lhbti", WeightDirect},
			{"opvoeden", WeightDirect},
			{"politiek", WeightDirect},
			{"politieke satire", WeightDirect},
			{"recht", WeightDirect},
			{"samenleving", WeightDirect},
		}},
		{name: "magazines/reports/documentary", labels: []weightedLabel{
			{"docudrama", WeightDirect},
			{"docusoap", WeightDirect},
			{"paranormaal", WeightDirect},
		}},
		{name: "economics/social advisory", labels: []weightedLabel{
			{"zelfhulp", WeightDirect},
		}},
		{name: "remarkable people"},
	}},
	{name: "Education/Science/Factual topics", categories: []taxonomyCategory{ // 0x09
		{name: "education/science/factual topics", labels: []weightedLabel{ // (general)
			{"amerikaanse geschiedenis", WeightDirect},
			{"biografie", WeightDirect},
			{"educatie", WeightDirect},
			{"geschiedenis", WeightDirect},
			{"klassieke geschiedenis", WeightDirect},
			{"militair", WeightOnly},
			{"reality", WeightOnly},
			{"verzamelen", WeightOnly},
			{"wereldgeschiedenis", WeightDirect},
			{"wetenschap", WeightDirect},
		}},
		{name: "nature/animals/environment", labels: []weightedLabel{
			{"dieren", WeightDirect},
			{"landbouw", WeightDirect},
			{"natuur", WeightDirect},
			{"natuur en milieu", WeightDirect},
		}},
		{name: "technology/natural sciences", labels: []weightedLabel{
			{"computers", WeightDirect},
			{"technologie", WeightDirect},
		}},
		{name: "medicine/physiology/psychology", labels: []weightedLabel{
			{"medisch", WeightDirect},
		}},
		{name: "foreign countries/expeditions"},
		{name: "social/spiritual sciences"},
		{name: "further education"},
		{name: "languages"},
	}},
	{name: "Leisure hobbies", categories: []taxonomyCategory{ // 0x0A
		{name: "leisure hobbies", labels: []weightedLabel{ // (general)
			{"fietsen", WeightDirect},
			{"gamen", WeightDirect},
			{"outdoor", WeightDirect},
			{"vissen", WeightDirect},
		}},
		{name: "tourism/travel", labels: []weightedLabel{
			{"reizen", WeightDirect},
		}},
		{name: "handicraft", labels: []weightedLabel{
			{"bouwen en verbouwen", WeightDirect},
			{"doe-het-zelf", WeightDirect},
		}},
		{name: "motoring", labels: []weightedLabel{
			{"auto's", WeightDirect},
			{"motors", WeightDirect},
		}},
		{name: "fitness and health", labels: []weightedLabel{
			{"exercise", WeightDirect},
			{"fit en gezond", WeightDirect},
			{"gezondheid", WeightDirect},
		}},
		{name: "cooking", labels: []weightedLabel{
			{"culinair", WeightDirect},
		}},
		{name: "advertisement / shopping"},
		{name: "gardening", labels: []weightedLabel{
			{"home & garden", WeightDirect},
		}},
	}},
}

var (
	tableOnce sync.Once
	table     map[string]Entry
)

// lookupTable flattens the curated hierarchy into a label-keyed table, built
// once per process and read-only afterwards.
func lookupTable() map[string]Entry {
	tableOnce.Do(func() {
		table = buildTable(etsiMap)
	})
	return table
}

func buildTable(groups []taxonomyGroup) map[string]Entry {
	t := make(map[string]Entry)
	for _, group := range groups {
		for _, category := range group.categories {
			for _, wl := range category.labels {
				t[normalizeLabel(wl.label)] = Entry{
					Category: category.name,
					Group:    group.name,
					Weight:   wl.weight,
				}
			}
		}
	}
	return t
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
