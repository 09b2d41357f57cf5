package assistant

import (
	"errors"
	"fmt"
)

// Stage sentinels. A StageError matches the sentinel of its stage with errors.Is.
var (
	ErrTranscription  = errors.New("transcription failed")
	ErrAnalysis       = errors.New("emotional analysis failed")
	ErrRecommendation = errors.New("recommendation failed")
	ErrSynthesis      = errors.New("speech synthesis failed")
)

// ErrTurnInProgress is returned when a session already has a turn running.
var ErrTurnInProgress = errors.New("a turn is already in progress for this session")

// StageError records which stage of a turn failed and why.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the failed stage.
func (e *StageError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *StageError) sentinel() error {
	switch e.Stage {
	case Recording, Transcribing:
		return ErrTranscription
	case Analyzing:
		return ErrAnalysis
	case Recommending:
		return ErrRecommendation
	case Rendering:
		return ErrSynthesis
	}
	return nil
}

// Message returns the text shown to the user for this failure.
func (e *StageError) Message() string {
	switch e.Stage {
	case Recording, Transcribing:
		return "Errore nel riconoscimento vocale. Riprova parlando più chiaramente."
	case Analyzing:
		return "Errore nell'analisi emotiva. Riprova tra qualche istante."
	case Recommending:
		return "Il servizio di raccomandazione non è disponibile: ecco un brano di riserva."
	case Rendering:
		return "Errore nella sintesi vocale: la risposta è disponibile solo come testo."
	}
	return "Si è verificato un errore."
}
