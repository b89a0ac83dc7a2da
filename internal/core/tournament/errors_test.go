package tournament

import (
	"strings"
	"testing"

	"github.com/uwhrefbox/refbox/internal/core/clockstate"
	"github.com/uwhrefbox/refbox/internal/core/period"
)

func TestColorString(t *testing.T) {
	if ColorBlack.String() != "Black" {
		t.Fatalf("ColorBlack.String() = %q, want Black", ColorBlack.String())
	}
	if ColorWhite.String() != "White" {
		t.Fatalf("ColorWhite.String() = %q, want White", ColorWhite.String())
	}
}

func TestErrWrongGamePeriodMessage(t *testing.T) {
	err := ErrWrongGamePeriod{Attempted: period.FirstHalf, Actual: period.BetweenGames}
	if !strings.Contains(err.Error(), "FirstHalf") || !strings.Contains(err.Error(), "BetweenGames") {
		t.Fatalf("ErrWrongGamePeriod message = %q, want it to name both periods", err.Error())
	}
}

func TestErrTooManyTeamTimeoutsMessage(t *testing.T) {
	err := ErrTooManyTeamTimeouts{Color: ColorWhite}
	if !strings.Contains(err.Error(), "White") {
		t.Fatalf("ErrTooManyTeamTimeouts message = %q, want it to name the color", err.Error())
	}
}

func TestErrAlreadyInTimeoutMessage(t *testing.T) {
	err := ErrAlreadyInTimeout{Current: clockstate.Black}
	if !strings.Contains(err.Error(), "Black") {
		t.Fatalf("ErrAlreadyInTimeout message = %q, want it to name the active kind", err.Error())
	}
}

func TestErrTooManyPenaltiesMessage(t *testing.T) {
	err := ErrTooManyPenalties{Limit: 3}
	if !strings.Contains(err.Error(), "3") {
		t.Fatalf("ErrTooManyPenalties message = %q, want it to mention the limit", err.Error())
	}
}

func TestErrInvalidIndexMessage(t *testing.T) {
	err := ErrInvalidIndex{Color: ColorBlack, Index: 7}
	if !strings.Contains(err.Error(), "7") || !strings.Contains(err.Error(), "Black") {
		t.Fatalf("ErrInvalidIndex message = %q, want it to name both index and color", err.Error())
	}
}
