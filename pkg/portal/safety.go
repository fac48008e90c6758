package portal

import (
	"time"

	"github.com/travigo/driverportal/pkg/cleaner"
	"github.com/travigo/driverportal/pkg/sheet"
	"github.com/travigo/driverportal/pkg/temporal"
)

// LatestSafetyMessage picks the banner from the safety feed: the non-blank message with the
// newest date, or the last non-blank row when no dates can be read.
func LatestSafetyMessage(safety *sheet.Table, calculator temporal.Calculator) (*SafetyMessage, error) {
	var messages []SafetyMessage
	if err := sheet.DecodeRecords(safety, &messages); err != nil {
		return nil, err
	}

	var latest *SafetyMessage
	var latestDate time.Time

	for i := range messages {
		message := &messages[i]
		if cleaner.IsBlank(message.Message) {
			continue
		}

		date, ok := calculator.ParseDate(message.Date)
		switch {
		case latest == nil:
		case ok && !date.Before(latestDate):
		case !ok && latestDate.IsZero():
		default:
			continue
		}

		latest = message
		if ok {
			latestDate = date
		}
	}

	if latest == nil {
		return nil, nil
	}

	return &SafetyMessage{
		Date:    calculator.FormatDisplayDate(latest.Date),
		Message: cleaner.Text(latest.Message, ""),
	}, nil
}
