package config

import "time"

// Duration is a variant of time.Duration which also understands a 'd'
// unit (for days) in addition to the normal units, adapted from the
// teacher's duration.go for the audit-sink flush interval and similar
// day-scale settings.
type Duration time.Duration

// UnmarshalFlag parses a day-suffixed duration such as "2d12h" before
// falling back to time.ParseDuration.
func (d *Duration) UnmarshalFlag(value string) error {
	v := value
	var days uint32
	for {
		if v[0] >= '0' && v[0] <= '9' {
			days = days*10 + uint32(v[0]-'0')
		} else if v[0] == 'd' {
			value = v[1:]
			if len(value) == 0 {
				*d = Duration(time.Hour * 24 * time.Duration(days))
				return nil
			}
			break
		} else {
			days = 0
			break
		}
		v = v[1:]
		if len(v) == 0 {
			days = 0
			break
		}
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(duration + time.Hour*24*time.Duration(days))
	return nil
}
