// Package timestamp parses and formats the canonical artifact timestamp,
// yyyy-MM-dd--HH-mm-ss, which is both the identity and the filename of a
// recording or snapshot.
package timestamp

import (
	"errors"
	"regexp"
	"time"

	"github.com/dromara/carbon/v2"
)

// Layout is the Go layout of yyyy-MM-dd--HH-mm-ss.
const Layout = "2006-01-02--15-04-05"

// Pattern is the human readable form, used in error messages.
const Pattern = "yyyy-MM-dd--HH-mm-ss"

var (
	ErrFormat    = errors.New("timestamp: not in " + Pattern + " format")
	ErrNotInPast = errors.New("timestamp: not in the past")
)

var canonical = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}--\d{2}-\d{2}-\d{2}$`)

type Codec struct {
	Location *time.Location
	Now      func() time.Time
}

func New(location *time.Location) *Codec {
	if location == nil {
		location = time.UTC
	}
	return &Codec{
		Location: location,
		Now:      time.Now,
	}
}

// Parse reads a canonical timestamp in the codec's location. Anything that
// is not the exact canonical shape, or not a real calendar moment, is an
// ErrFormat.
func (c *Codec) Parse(text string) (time.Time, error) {
	if !canonical.MatchString(text) {
		return time.Time{}, ErrFormat
	}
	parsed := carbon.ParseByLayout(text, Layout, carbon.UTC)
	if parsed.HasError() {
		return time.Time{}, ErrFormat
	}
	wall := parsed.StdTime()
	// Reject values the parser normalised, such as 2024-02-30.
	if wall.Format(Layout) != text {
		return time.Time{}, ErrFormat
	}
	t := time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), 0, c.Location)
	// A wall clock skipped by a daylight saving jump does not exist in
	// the location, time.Date moves it.
	if t.Format(Layout) != text {
		return time.Time{}, ErrFormat
	}
	return t, nil
}

func (c *Codec) Format(t time.Time) string {
	return t.In(c.Location).Format(Layout)
}

// IsPast reports whether t lies strictly before now.
func (c *Codec) IsPast(t time.Time, now time.Time) bool {
	return carbon.CreateFromStdTime(t).Lt(carbon.CreateFromStdTime(now))
}

// ParsePast parses text and checks it against the codec's clock. Format
// errors are reported before the past check.
func (c *Codec) ParsePast(text string) (time.Time, error) {
	t, err := c.Parse(text)
	if err != nil {
		return time.Time{}, err
	}
	if !c.IsPast(t, c.Now()) {
		return time.Time{}, ErrNotInPast
	}
	return t, nil
}
