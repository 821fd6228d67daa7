package database

// seedTemplate is one default catalog entry
type seedTemplate struct {
	title       string
	description string
	category    string
	difficulty  string
	minAge      int
	maxAge      int
	duration    int
	credits     int
}

// defaultCatalog spans every category and the full 3-17 age range so that
// freshly provisioned databases can always serve a challenge.
var defaultCatalog = []seedTemplate{
	{"Backyard explorer", "Spend 30 minutes outside finding five different leaves, three insects and one funny-shaped cloud.", "outdoor", "easy", 3, 8, 30, 15},
	{"Neighbourhood bike loop", "Ride your bike or scooter around the block three times, then draw the route from memory.", "outdoor", "medium", 7, 13, 45, 25},
	{"Sunset hike", "Plan and walk a short hike with an adult, timing your arrival for sunset.", "outdoor", "hard", 12, 17, 90, 45},
	{"Cardboard castle", "Build a castle from boxes and recycling, with at least one working drawbridge.", "creative", "medium", 4, 10, 60, 30},
	{"Stop-motion short", "Make a 30-second stop-motion film using toys and a notebook for the storyboard.", "creative", "hard", 10, 17, 90, 45},
	{"Comic strip artist", "Draw a six-panel comic about your week, no screens allowed for reference.", "creative", "easy", 6, 12, 40, 20},
	{"Picture book marathon", "Read three picture books aloud to someone in your family, doing a voice for each character.", "reading", "easy", 3, 7, 30, 15},
	{"Chapter champion", "Read two chapters of a book and retell the story at dinner.", "reading", "medium", 8, 13, 45, 25},
	{"Book swap pitch", "Finish a novel and write a half-page pitch to convince a friend to read it.", "reading", "hard", 13, 17, 120, 50},
	{"Family recipe night", "Cook dinner together, with the kids in charge of one full dish.", "family", "medium", 5, 17, 60, 30},
	{"Board game tournament", "Run a three-round board game tournament and keep the score sheet.", "family", "easy", 5, 15, 45, 20},
	{"Grandparent interview", "Interview an older relative about their childhood and write down three stories.", "family", "medium", 8, 17, 45, 30},
	{"Ball skills circuit", "Set up a five-station ball skills circuit in the garden and beat your own time twice.", "sport", "medium", 6, 12, 40, 25},
	{"Morning stretch routine", "Invent a ten-minute stretch routine and lead the family through it.", "sport", "easy", 4, 10, 15, 10},
	{"Personal best week", "Pick a sport and train three times this week, logging your progress on paper.", "sport", "hard", 11, 17, 120, 50},
	{"Kitchen science lab", "Do two safe kitchen experiments and record what happened like a scientist.", "learning", "medium", 6, 11, 45, 25},
	{"Star spotter", "Learn three constellations and find them in the night sky.", "learning", "easy", 7, 14, 30, 20},
	{"Teach-back challenge", "Learn a new skill from a book and teach it to a family member until they can do it.", "learning", "hard", 12, 17, 90, 45},
}

// SeedDefaultCatalog inserts the default challenge templates if the catalog
// is empty. Safe to call on every startup.
func (db *DB) SeedDefaultCatalog() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM challenge_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO challenge_templates
			(title, description, category, difficulty, min_age, max_age, duration_minutes, fun_credits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range defaultCatalog {
		if _, err := db.Exec(query, t.title, t.description, t.category, t.difficulty,
			t.minAge, t.maxAge, t.duration, t.credits); err != nil {
			return err
		}
	}

	return nil
}
