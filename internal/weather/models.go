package weather

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// UpdateTimeLayout is the layout of Snapshot.UpdateTime.
const UpdateTimeLayout = "2006-01-02 15-04-05"

// Info is the flat, export-ready weather record for one district.
// All fields are always present; missing provider data leaves the defaults.
type Info struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Temperature    float64 `json:"temperature"`
	Humidity       string  `json:"humidity"`     // formatted, with unit
	PressureHPA    float64 `json:"pressure_hpa"` // raw
	PressureMM     int     `json:"pressure_mm"`
	WindSpeed      float64 `json:"wind_speed"`
	WindDirRaw     float64 `json:"wind_dir_raw"`
	WindDir        string  `json:"wind_dir"` // abbreviation
	CloudsValue    float64 `json:"clouds_value"`
	CloudsText     string  `json:"clouds_text"`
	Precipitation  float64 `json:"precipitation"`
	WeatherIcon    string  `json:"weather_icon"`
	WeatherIconURL string  `json:"weather_icon_url"`
	T              int     `json:"t"` // rounded temperature
	S              string  `json:"s"` // translated icon code
}

// Records holds normalized records keyed by provider id. It is the write-side
// shape and encodes as a JSON object.
type Records map[int]Info

// UnmarshalJSON implements json.Unmarshaler. It accepts every form RecordList
// does; later entries win when ids repeat.
func (r *Records) UnmarshalJSON(data []byte) error {
	var list RecordList
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Records, len(list))
	for _, info := range list {
		if info != nil {
			out[info.ID] = *info
		}
	}
	*r = out
	return nil
}

// RecordList is the read-side view of a data section: every entry in file
// order, whether the section is an object or a list. Object keys are ignored
// and null entries stay nil.
type RecordList []*Info

// UnmarshalJSON implements json.Unmarshaler.
func (l *RecordList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty data section")
	}

	switch trimmed[0] {
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("invalid data section %q", trimmed)
		}
		*l = RecordList{}
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := make(RecordList, 0, len(items))
		for i, raw := range items {
			info, err := decodeEntry(raw)
			if err != nil {
				return fmt.Errorf("data entry %d: %w", i, err)
			}
			out = append(out, info)
		}
		*l = out
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return err
		}
		out := RecordList{}
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			info, err := decodeEntry(raw)
			if err != nil {
				return fmt.Errorf("data entry %v: %w", key, err)
			}
			out = append(out, info)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("data section must be an object or a list, got %q", trimmed)
	}
}

func decodeEntry(raw json.RawMessage) (*Info, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var info Info
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FindByID returns the first entry with the given provider id, or nil.
func (l RecordList) FindByID(id int) *Info {
	for _, info := range l {
		if info != nil && info.ID == id {
			return info
		}
	}
	return nil
}

// Snapshot is the cached weather file written by the fetch-and-save cycle.
type Snapshot struct {
	UpdateTS   int64   `json:"update_ts"`
	UpdateTime string  `json:"update_time"`
	Data       Records `json:"data"`
}

// NewSnapshot wraps records with the given update time.
func NewSnapshot(at time.Time, data map[int]Info) Snapshot {
	if data == nil {
		data = map[int]Info{}
	}
	return Snapshot{
		UpdateTS:   at.Unix(),
		UpdateTime: at.Format(UpdateTimeLayout),
		Data:       Records(data),
	}
}

// Measurement is a provider value with its unit and optional description.
type Measurement struct {
	Value       float64
	Unit        string
	Description string
}

// Formatted renders the value followed by its unit, e.g. "65 %".
func (m Measurement) Formatted() string {
	v := strconv.FormatFloat(m.Value, 'f', -1, 64)
	if m.Unit == "" {
		return v
	}
	return v + " " + m.Unit
}

// Temperature holds the current temperature reading of a record.
type Temperature struct {
	Now *Measurement
}

// Wind groups speed and direction; either may be absent.
type Wind struct {
	Speed     *Measurement
	Direction *Measurement
}

// Condition describes the provider's weather condition and icon.
type Condition struct {
	Description string
	Icon        string
}

// IconURL returns the provider-hosted image for the condition icon.
func (c Condition) IconURL() string {
	if c.Icon == "" {
		return ""
	}
	return "https://openweathermap.org/img/w/" + c.Icon + ".png"
}

// City identifies the provider location a record belongs to.
type City struct {
	ID   int
	Name string
}

// CurrentWeather is the raw provider record. Every sub-object may be nil.
type CurrentWeather struct {
	City          City
	Temperature   Temperature
	Humidity      *Measurement
	Pressure      *Measurement
	Wind          Wind
	Clouds        *Measurement
	Precipitation *Measurement
	Weather       *Condition
	LastUpdate    time.Time
}
