package trim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ra2audit/internal/logging"
	"ra2audit/internal/ra2"
)

const (
	// commandedLevel is the target the test drives every zone to.
	commandedLevel = 100.0

	// rampFadeSeconds is the fade used for the ramp up and the restore.
	rampFadeSeconds = 1.0

	// DefaultSettleDelay gives the controller time to finish the fade
	// before the level is read back.
	DefaultSettleDelay = 1500 * time.Millisecond
)

// Status classifies the gap between commanded and observed brightness.
type Status string

const (
	// StatusNoTrim means the zone reached the commanded level exactly.
	StatusNoTrim Status = "no-trim"

	// StatusLikelyTrimmed means the zone settled below the commanded
	// level, which is what a high-end trim looks like.
	StatusLikelyTrimmed Status = "likely-trimmed"

	// StatusUnknown means the zone reported more than the commanded
	// level, which should be physically impossible.
	StatusUnknown Status = "unknown"
)

// Result is the immutable outcome of one zone's brightness test.
type Result struct {
	Device         ra2.Device
	CommandedLevel float64
	ObservedLevel  float64
	Status         Status
	Notes          string
	CreatedAt      time.Time
}

// ZoneController is the slice of the controller client the tester needs.
// *ra2.Client satisfies it.
type ZoneController interface {
	SetZoneLevel(integrationID int, level float64, fadeSeconds float64) error
	QueryZoneLevel(ctx context.Context, integrationID int) (float64, error)
}

// Tester runs brightness tests against one controller session.
type Tester struct {
	// SettleDelay is how long to wait between the ramp command and the
	// read-back query.
	SettleDelay time.Duration

	controller ZoneController
	sleep      func(time.Duration)
}

// NewTester returns a Tester bound to the given controller session.
func NewTester(controller ZoneController) *Tester {
	return &Tester{
		SettleDelay: DefaultSettleDelay,
		controller:  controller,
		sleep:       time.Sleep,
	}
}

// TestDevice runs the brightness test on a single zone: ramp to 100%,
// settle, read back, restore the original level, classify. Non-dimmable
// devices fail with a not-applicable error before any command is sent.
func (t *Tester) TestDevice(ctx context.Context, device ra2.Device) (Result, error) {
	if !device.IsDimmable() {
		return Result{}, ra2.NewNotApplicableError(
			fmt.Sprintf("%s (id %d) is not a dimmable zone", device.Name, device.IntegrationID))
	}

	originalLevel := 0.0
	if device.Level != nil {
		originalLevel = *device.Level
	}

	if err := t.controller.SetZoneLevel(device.IntegrationID, commandedLevel, rampFadeSeconds); err != nil {
		return Result{}, err
	}

	t.sleep(t.SettleDelay)

	observed, err := t.controller.QueryZoneLevel(ctx, device.IntegrationID)

	// Restore is best-effort: the zone should not be left at full
	// brightness even when the read-back failed.
	if restoreErr := t.controller.SetZoneLevel(device.IntegrationID, originalLevel, rampFadeSeconds); restoreErr != nil {
		logging.Warn("Failed to restore zone level after brightness test",
			zap.Int("integration_id", device.IntegrationID),
			zap.Error(restoreErr),
		)
	}

	if err != nil {
		return Result{}, err
	}

	status, notes := classify(commandedLevel, observed)
	return Result{
		Device:         device,
		CommandedLevel: commandedLevel,
		ObservedLevel:  observed,
		Status:         status,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}, nil
}

// RunAll tests every dimmable device in the list. A failure on one
// device skips it and the batch continues; callers detect partial
// failure by comparing the result count to the dimmable device count.
func (t *Tester) RunAll(ctx context.Context, devices []ra2.Device) []Result {
	results := make([]Result, 0, len(devices))
	for _, device := range devices {
		if !device.IsDimmable() {
			continue
		}
		result, err := t.TestDevice(ctx, device)
		if err != nil {
			logging.Warn("Brightness test skipped device",
				zap.Int("integration_id", device.IntegrationID),
				zap.String("name", device.Name),
				zap.Error(err),
			)
			continue
		}
		results = append(results, result)
	}
	return results
}

// classify compares observed output to the commanded level.
func classify(commanded, observed float64) (Status, string) {
	switch {
	case observed == commanded:
		return StatusNoTrim, fmt.Sprintf("zone reached the commanded %.0f%%", commanded)
	case observed < commanded:
		return StatusLikelyTrimmed, fmt.Sprintf(
			"observed %.0f%% against a commanded %.0f%%; output appears trimmed by %.0f%%",
			observed, commanded, commanded-observed)
	default:
		return StatusUnknown, fmt.Sprintf(
			"observed %.0f%% exceeds the commanded %.0f%%, which should not be possible",
			observed, commanded)
	}
}
