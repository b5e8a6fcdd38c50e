// Package catalog maps a class level and stream to the ordered list of subjects
// a student studies. Lookups are pure and deterministic.
package catalog

import (
	"strconv"
	"strings"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
)

type Stream string

const (
	StreamNone     Stream = ""
	StreamScience  Stream = "science"
	StreamCommerce Stream = "commerce"
	StreamArts     Stream = "arts"
)

// coreSubjectIDs are the subjects the daily rotation draws from.
var coreSubjectIDs = map[string]bool{
	"math":      true,
	"science":   true,
	"physics":   true,
	"chemistry": true,
	"biology":   true,
	"accounts":  true,
	"business":  true,
	"history":   true,
	"polity":    true,
}

var (
	juniorSubjects = []models.Subject{
		{ID: "math", Name: "Mathematics"},
		{ID: "science", Name: "Science"},
		{ID: "english", Name: "English"},
		{ID: "hindi", Name: "Hindi"},
		{ID: "sst", Name: "Social Studies"},
		{ID: "computer", Name: "Computer"},
	}

	secondarySubjects = []models.Subject{
		{ID: "math", Name: "Mathematics"},
		{ID: "science", Name: "Science"},
		{ID: "history", Name: "History"},
		{ID: "polity", Name: "Political Science"},
		{ID: "geography", Name: "Geography"},
		{ID: "economics", Name: "Economics"},
		{ID: "english", Name: "English"},
		{ID: "hindi", Name: "Hindi"},
	}

	streamSubjects = map[Stream][]models.Subject{
		StreamScience: {
			{ID: "physics", Name: "Physics"},
			{ID: "chemistry", Name: "Chemistry"},
			{ID: "biology", Name: "Biology"},
			{ID: "math", Name: "Mathematics"},
			{ID: "english", Name: "English"},
			{ID: "computer", Name: "Computer Science"},
		},
		StreamCommerce: {
			{ID: "accounts", Name: "Accountancy"},
			{ID: "business", Name: "Business Studies"},
			{ID: "economics", Name: "Economics"},
			{ID: "math", Name: "Mathematics"},
			{ID: "english", Name: "English"},
		},
		StreamArts: {
			{ID: "history", Name: "History"},
			{ID: "polity", Name: "Political Science"},
			{ID: "geography", Name: "Geography"},
			{ID: "economics", Name: "Economics"},
			{ID: "english", Name: "English"},
		},
	}
)

// ParseStream normalises user input to a known stream. Unknown values map to StreamNone.
func ParseStream(s string) Stream {
	switch Stream(strings.ToLower(strings.TrimSpace(s))) {
	case StreamScience:
		return StreamScience
	case StreamCommerce:
		return StreamCommerce
	case StreamArts:
		return StreamArts
	default:
		return StreamNone
	}
}

// Streams lists the selectable streams in display order.
func Streams() []Stream {
	return []Stream{StreamScience, StreamCommerce, StreamArts}
}

// Subjects returns the ordered subject list for a class level and stream.
// Classes 11 and 12 use the stream list when one is given; without a stream they
// fall back to the secondary list. Returned slices are copies.
func Subjects(classLevel, stream string) []models.Subject {
	level := classLevel
	if level == "" {
		level = constants.DefaultClassLevel
	}
	n, err := strconv.Atoi(level)
	if err != nil {
		// Non-numeric levels (competitive exam tracks) use their stream list if any.
		if list, ok := streamSubjects[ParseStream(stream)]; ok {
			return clone(list)
		}
		return clone(secondarySubjects)
	}

	switch {
	case n >= 11:
		if list, ok := streamSubjects[ParseStream(stream)]; ok {
			return clone(list)
		}
		return clone(secondarySubjects)
	case n >= 9:
		return clone(secondarySubjects)
	default:
		return clone(juniorSubjects)
	}
}

// CoreSubjects filters subjects down to the rotation core, preserving order.
func CoreSubjects(subjects []models.Subject) []models.Subject {
	var core []models.Subject
	for _, s := range subjects {
		if coreSubjectIDs[s.ID] {
			core = append(core, s)
		}
	}
	return core
}

// AddableSubjects is the choice list for a custom slot: the catalog subjects
// followed by the revision and extra activity pseudo subjects.
func AddableSubjects(classLevel, stream string) []models.Subject {
	list := Subjects(classLevel, stream)
	return append(list,
		models.Subject{ID: constants.SubjectRevision, Name: "Revision"},
		models.Subject{ID: constants.SubjectExtra, Name: "Extra Activity"},
	)
}

// SubjectName resolves a subject id to its display name, falling back to the id.
func SubjectName(classLevel, id string) string {
	switch id {
	case constants.SubjectCurrentAffairs:
		return "Current Affairs"
	case constants.SubjectSelfAnalysis:
		return "Self Analysis"
	}
	for _, s := range Subjects(classLevel, "") {
		if s.ID == id {
			return s.Name
		}
	}
	for _, list := range streamSubjects {
		for _, s := range list {
			if s.ID == id {
				return s.Name
			}
		}
	}
	return id
}

func clone(list []models.Subject) []models.Subject {
	out := make([]models.Subject, len(list))
	copy(out, list)
	return out
}
