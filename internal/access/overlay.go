// Package access implements the distribution gating used by student builds:
// a JSON profile appended to the executable as a trailer, per-app time
// windows evaluated against a network clock, and the trailer writer that
// turns a teacher binary into a student one.
package access

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// overlayMarker separates the executable image from the appended profile.
var overlayMarker = []byte("<<<STUDENT_CONFIG_START>>>")

// Mode distinguishes the two build flavors.
type Mode string

const (
	ModeTeacher Mode = "teacher"
	ModeStudent Mode = "student"
)

// Window is a per-app availability range. Both bounds accept
// "2006-01-02" or "2006-01-02 15:04"; a date-only end extends to the
// end of that day.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Profile is the decoded overlay trailer. A binary without a trailer
// runs as a teacher build with no limits.
type Profile struct {
	Mode   Mode              `json:"mode"`
	Limits map[string]Window `json:"limits"`
}

// TeacherProfile returns the default profile for a binary with no overlay.
func TeacherProfile() Profile {
	return Profile{Mode: ModeTeacher, Limits: map[string]Window{}}
}

// IsStudent reports whether the profile restricts app access.
func (p Profile) IsStudent() bool {
	return p.Mode == ModeStudent
}

// ReadOverlay reads the profile appended to the file at path. A missing
// or undecodable trailer yields the teacher profile; only I/O failures
// are errors. The last marker occurrence wins, in case the image itself
// happens to contain the byte sequence.
func ReadOverlay(path string) (Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading executable: %w", err)
	}
	return decodeOverlay(content), nil
}

func decodeOverlay(content []byte) Profile {
	idx := bytes.LastIndex(content, overlayMarker)
	if idx < 0 {
		return TeacherProfile()
	}
	var p Profile
	if err := json.Unmarshal(content[idx+len(overlayMarker):], &p); err != nil {
		return TeacherProfile()
	}
	if p.Limits == nil {
		p.Limits = map[string]Window{}
	}
	return p
}

// WriteOverlay copies the executable at src to dst with the given limits
// appended as a student trailer. Any trailer already present on src is
// stripped first so overlays never stack. Each window must parse.
func WriteOverlay(src, dst string, limits map[string]Window) error {
	for app, w := range limits {
		if _, _, err := w.bounds(); err != nil {
			return fmt.Errorf("app %q: %w", app, err)
		}
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading source executable: %w", err)
	}
	if idx := bytes.Index(content, overlayMarker); idx >= 0 {
		content = content[:idx]
	}

	profile := Profile{Mode: ModeStudent, Limits: limits}
	trailer, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	out := make([]byte, 0, len(content)+len(overlayMarker)+len(trailer))
	out = append(out, content...)
	out = append(out, overlayMarker...)
	out = append(out, trailer...)

	if err := os.WriteFile(dst, out, 0o755); err != nil {
		return fmt.Errorf("writing student executable: %w", err)
	}
	return nil
}
