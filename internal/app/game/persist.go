package game

import (
	"shopeelife/internal/app/ports"
	"shopeelife/internal/app/session"
	"shopeelife/internal/domain/office"
)

func toUpdate(saved session.Saved) (ports.ProgressUpdate, error) {
	blob, err := saved.Encode()
	if err != nil {
		return ports.ProgressUpdate{}, err
	}
	currency := saved.Ledger.Currency
	level := saved.Ledger.Level
	experience := saved.Ledger.Experience
	return ports.ProgressUpdate{
		Currency:   &currency,
		Level:      &level,
		Experience: &experience,
		GameState:  blob,
	}, nil
}

// fromProgress rebuilds a session from a stored row. The ledger columns are
// kept even when the state blob cannot be read.
func fromProgress(p ports.Progress) (session.Saved, error) {
	ledger := office.DefaultLedger()
	ledger.Currency = p.Currency
	ledger.Level = p.Level
	ledger.Experience = p.Experience

	saved, err := session.Decode(p.GameState, ledger)
	if err != nil {
		fallback := session.DefaultSaved()
		fallback.Ledger.Currency = ledger.Currency
		fallback.Ledger.Level = ledger.Level
		fallback.Ledger.Experience = ledger.Experience
		fallback.Ledger = fallback.Ledger.Normalize()
		return fallback, err
	}
	return saved, nil
}
