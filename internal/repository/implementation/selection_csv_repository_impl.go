package implementation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SelectionCSVHeader is the fixed column layout of the selection log file.
var SelectionCSVHeader = []string{
	"timestamp", "city", "latitude", "longitude", "today_status", "tomorrow_status",
	"weekday", "weather_desc", "temperature", "mood", "voice_tone", "movie_selected",
}

var csvTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

type SelectionCSVRepositoryImpl struct {
	mu   sync.Mutex
	path string
}

func NewSelectionCSVRepository(path string) contract.SelectionRepository {
	return &SelectionCSVRepositoryImpl{path: path}
}

// Append writes one row, creating the file with its header when absent.
func (r *SelectionCSVRepositoryImpl) Append(ctx context.Context, s *entity.Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open selection log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat selection log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(SelectionCSVHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(toRecord(s)); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (r *SelectionCSVRepositoryImpl) FindRecent(ctx context.Context, limit int, specs ...specification.Specification) ([]*entity.Selection, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, s := range all {
		if specification.MatchAll(s, specs...) {
			matched = append(matched, s)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (r *SelectionCSVRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, err := r.FindRecent(ctx, 0, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *SelectionCSVRepositoryImpl) readAll(ctx context.Context) ([]*entity.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*entity.Selection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open selection log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []*entity.Selection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrMalformedLog, err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []*entity.Selection
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", contract.ErrMalformedLog, line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		s, err := fromRecord(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", contract.ErrMalformedLog, line, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, want := range SelectionCSVHeader {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", contract.ErrMalformedLog, want)
		}
	}
	return idx, nil
}

func toRecord(s *entity.Selection) []string {
	return []string{
		s.Timestamp.Format(time.RFC3339Nano),
		s.City,
		strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		s.TodayStatus,
		s.TomorrowStatus,
		s.Weekday,
		s.WeatherDesc,
		strconv.FormatFloat(s.Temperature, 'f', -1, 64),
		s.Mood,
		s.VoiceTone,
		s.MovieSelected,
	}
}

func fromRecord(rec []string, cols map[string]int) (*entity.Selection, error) {
	get := func(name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}

	s := &entity.Selection{
		Id:             uuid.New(),
		City:           get("city"),
		TodayStatus:    get("today_status"),
		TomorrowStatus: get("tomorrow_status"),
		Weekday:        get("weekday"),
		WeatherDesc:    get("weather_desc"),
		Mood:           get("mood"),
		VoiceTone:      get("voice_tone"),
		MovieSelected:  get("movie_selected"),
	}
	for _, required := range []struct{ name, val string }{
		{"city", s.City}, {"today_status", s.TodayStatus}, {"mood", s.Mood}, {"movie_selected", s.MovieSelected},
	} {
		if required.val == "" {
			return nil, fmt.Errorf("column %s is empty", required.name)
		}
	}

	var err error
	if s.Latitude, err = num("latitude"); err != nil {
		return nil, err
	}
	if s.Longitude, err = num("longitude"); err != nil {
		return nil, err
	}
	if s.Temperature, err = num("temperature"); err != nil {
		return nil, err
	}

	ts := get("timestamp")
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			s.Timestamp = t
			break
		}
	}
	return s, nil
}
