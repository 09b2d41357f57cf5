package llm

import "github.com/justestif/go-mood-music-assistant/internal/mood"

// RecommendationCount is the number of songs the model is asked for.
const RecommendationCount = 5

// DefaultFallbackSize is the number of entries in the fallback sequence.
//
// It deliberately differs from RecommendationCount: the degraded result has
// always been three copies of one song, while the model is asked for five.
// Whether the mismatch is intended is unresolved, so it stays tunable
// (recommend.fallback_size) instead of being silently aligned.
const DefaultFallbackSize = 3

// fallbackSong is a well-known, broadly uplifting Italian classic.
var fallbackSong = mood.SongRecommendation{
	Title:    "Nel blu dipinto di blu (Volare)",
	Artist:   "Domenico Modugno",
	Album:    "Nel blu dipinto di blu",
	Year:     1958,
	Genre:    "Canzone Italiana",
	Subgenre: "Musica Leggera",
	Features: mood.MusicalFeatures{
		BPM:    "125",
		Key:    "D Major",
		Energy: 8,
		Mood:   "Gioioso",
	},
	Therapeutic: mood.TherapeuticValue{
		PrimaryEffect:    "Elevazione del morale",
		EmotionalImpact:  "Senso di libertà e leggerezza",
		ListeningSetting: "Ambienti aperti e luminosi",
		BestMoment:       "Mattina o primo pomeriggio",
	},
	Reason: "Classico che trasmette gioia e spensieratezza",
}

// FallbackSongs returns the default recommendation replicated n times.
// n below one is raised to one so the sequence is never empty.
func FallbackSongs(n int) []mood.SongRecommendation {
	if n < 1 {
		n = 1
	}
	songs := make([]mood.SongRecommendation, n)
	for i := range songs {
		songs[i] = fallbackSong
	}
	return songs
}
