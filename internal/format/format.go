// Package format renders emotional profiles and song recommendations as the
// plain text shown on screen, read aloud and stored in the session history.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
)

// NotAvailable replaces every missing value.
const NotAvailable = "N/A"

const (
	analysisErrPrefix        = "Errore nella formattazione dell'analisi"
	recommendationsErrPrefix = "Errore nella formattazione delle raccomandazioni"
	noSongs                  = "Nessun brano disponibile"
)

// FormatAnalysis returns the emotional profile as text. It never panics;
// a failure is reported in the returned text.
func FormatAnalysis(p mood.EmotionalProfile) string {
	return safely(analysisErrPrefix, func() string {
		var sb strings.Builder

		sb.WriteString("🎭 ANALISI EMOTIVA\n")
		sb.WriteString("═══════════════\n\n")

		writeEmotion(&sb, "Emozione Principale", p.State.Primary)
		writeEmotion(&sb, "Emozione Secondaria", p.State.Secondary)

		sb.WriteString("🎵 PREFERENZE MUSICALI\n")
		sb.WriteString("═══════════════════\n")
		fmt.Fprintf(&sb, "• Tempo: %s\n", text(p.Musical.SuggestedTempo))
		fmt.Fprintf(&sb, "• Mood: %s\n", text(p.Musical.Mood))
		fmt.Fprintf(&sb, "• Generi: %s\n\n", list(p.Musical.Genres))

		sb.WriteString("🎯 OBIETTIVI TERAPEUTICI\n")
		sb.WriteString("═══════════════════════\n")
		fmt.Fprintf(&sb, "• %s\n", text(p.Therapeutic.PrimaryGoal))
		fmt.Fprintf(&sb, "• Durata: %s\n", text(p.Therapeutic.Duration))
		fmt.Fprintf(&sb, "• Benefici attesi: %s\n", list(p.Therapeutic.ExpectedBenefits))

		return sb.String()
	})
}

// FormatRecommendations returns the numbered song list as text. It never
// panics; a failure is reported in the returned text.
func FormatRecommendations(songs []mood.SongRecommendation) string {
	return safely(recommendationsErrPrefix, func() string {
		var sb strings.Builder

		sb.WriteString("🎵 BRANI CONSIGLIATI\n")
		sb.WriteString("════════════════\n\n")

		if len(songs) == 0 {
			sb.WriteString(noSongs + "\n")
			return sb.String()
		}

		for i, song := range songs {
			sb.WriteString(formatSong(i+1, song))
		}
		return sb.String()
	})
}

// formatSong formats one numbered recommendation.
func formatSong(num int, song mood.SongRecommendation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d. %s - %s\n", num, str(song.Artist), str(song.Title))
	fmt.Fprintf(&sb, "   📀 Album: %s (%s)\n", text(song.Album), score(song.Year))
	fmt.Fprintf(&sb, "   🎼 Genere: %s / %s\n", text(song.Genre), text(song.Subgenre))

	energy := NotAvailable
	if song.Features.Energy != 0 {
		energy = score(song.Features.Energy) + "/10"
	}
	fmt.Fprintf(&sb, "   🎹 BPM: %s | Tonalità: %s | Energia: %s\n",
		text(song.Features.BPM), text(song.Features.Key), energy)

	fmt.Fprintf(&sb, "   🎯 Effetto: %s\n", text(song.Therapeutic.PrimaryEffect))
	fmt.Fprintf(&sb, "   💭 Impatto: %s\n", text(song.Therapeutic.EmotionalImpact))
	fmt.Fprintf(&sb, "   🌟 Setting: %s\n", text(song.Therapeutic.ListeningSetting))
	fmt.Fprintf(&sb, "   ⏰ Momento: %s\n", text(song.Therapeutic.BestMoment))
	fmt.Fprintf(&sb, "   📝 Motivazione: %s\n", text(song.Reason))
	if song.SpotifyURL != "" {
		fmt.Fprintf(&sb, "   🔗 Spotify: %s\n", song.SpotifyURL)
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeEmotion(sb *strings.Builder, label string, e *mood.Emotion) {
	if e == nil {
		fmt.Fprintf(sb, "📌 %s: %s\n\n", label, NotAvailable)
		return
	}

	intensity := NotAvailable
	if e.Intensity != 0 {
		intensity = score(e.Intensity) + "/100"
	}

	fmt.Fprintf(sb, "📌 %s: %s\n", label, str(e.Name))
	fmt.Fprintf(sb, "   Intensità: %s\n", intensity)
	fmt.Fprintf(sb, "   %s\n\n", str(e.Description))
}

// safely runs render and turns a panic into an error line.
func safely(prefix string, render func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("%s: %v", prefix, r)
		}
	}()
	return render()
}

func str(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return NotAvailable
	}
	return s
}

func text(t mood.Text) string {
	return str(string(t))
}

func score(s mood.Score) string {
	if s == 0 {
		return NotAvailable
	}
	return strconv.Itoa(int(s))
}

func list(l mood.List) string {
	items := make([]string, 0, len(l))
	for _, item := range l {
		if v := strings.TrimSpace(string(item)); v != "" {
			items = append(items, v)
		}
	}
	if len(items) == 0 {
		return NotAvailable
	}
	return strings.Join(items, ", ")
}
