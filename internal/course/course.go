package course

// Course types as they appear in the catalog.
const (
	TypeLaurea     = "Laurea"
	TypeMagistrale = "Laurea Magistrale"
	TypeCustom     = "Custom"
)

// Course describes one degree programme and where its timetable lives.
// Static courses are immutable; Custom ones are user-created and
// removable.
type Course struct {
	ID        string `json:"id" toml:"id"`
	Name      string `json:"name" toml:"name"`
	Type      string `json:"type" toml:"type"`
	URL       string `json:"url" toml:"url"`
	Curricula string `json:"curricula" toml:"curricula"`
	Years     int    `json:"years" toml:"years"`
}

// Custom reports whether the course was created by the user.
func (c Course) Custom() bool {
	return c.Type == TypeCustom
}

// StaticCourses returns the built-in course catalog.
func StaticCourses() []Course {
	return []Course{
		{
			ID:        "lingue-comunicazione-interculturale",
			Name:      "Lingue e tecnologie per la comunicazione interculturale",
			Type:      TypeLaurea,
			URL:       "https://corsi.unibo.it/laurea/LingueTecnologieComunicazioneInterculturale/orario-lezioni/@@orario_reale_json",
			Curricula: "C60-000",
			Years:     3,
		},
		{
			ID:    "informatica",
			Name:  "Informatica",
			Type:  TypeLaurea,
			URL:   "https://corsi.unibo.it/laurea/informatica/orario-lezioni/@@orario_reale_json",
			Years: 3,
		},
		{
			ID:        "informatica-magistrale-a",
			Name:      "Informatica (Laurea Magistrale) Curriculum A",
			Type:      TypeMagistrale,
			URL:       "https://corsi.unibo.it/magistrale/informatica/orario-lezioni/@@orario_reale_json",
			Curricula: "A58-000",
			Years:     2,
		},
		{
			ID:        "informatica-magistrale-b",
			Name:      "Informatica (Laurea Magistrale) Curriculum B",
			Type:      TypeMagistrale,
			URL:       "https://corsi.unibo.it/magistrale/informatica/orario-lezioni/@@orario_reale_json",
			Curricula: "991-000",
			Years:     2,
		},
		{
			ID:        "informatica-magistrale-c",
			Name:      "Informatica (Laurea Magistrale) Curriculum C",
			Type:      TypeMagistrale,
			URL:       "https://corsi.unibo.it/magistrale/informatica/orario-lezioni/@@orario_reale_json",
			Curricula: "992-000",
			Years:     2,
		},
		{
			ID:    "ingegneria-informatica",
			Name:  "Ingegneria Informatica",
			Type:  TypeLaurea,
			URL:   "https://corsi.unibo.it/laurea/IngegneriaInformatica/orario-lezioni/@@orario_reale_json",
			Years: 3,
		},
	}
}
