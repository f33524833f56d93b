package admission

import (
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/kerberos-io/media/src/models"
)

var extensions = map[models.MediaType][]string{
	models.Recording: {".mp4"},
	models.Snapshot:  {".png", ".jpg", ".jpeg"},
}

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Sniffed types that agree with an extension. Parents of the detected type
// are tried too, so an animated png still counts as a png.
var compatible = map[string][]string{
	".mp4":  {"video/mp4", "video/quicktime", "video/3gpp", "video/3gpp2", "audio/mp4", "video/x-m4v", "video/iso.segment"},
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
}

func allowedExtension(kind models.MediaType, ext string) bool {
	for _, allowed := range extensions[kind] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// sniff looks at the head of the spooled file. Only a conclusive
// detection of another format is a mismatch, unknown binary or text is
// given the benefit of the doubt.
func sniff(file *os.File, ext string) error {
	detected, err := mimetype.DetectFile(file.Name())
	if err != nil {
		return err
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, candidate := range compatible[ext] {
			if m.Is(candidate) {
				return nil
			}
		}
	}
	if detected.Is("application/octet-stream") || detected.Is("text/plain") {
		return nil
	}
	return ErrContentMismatch
}

// probeDuration reads the movie header of a recording. It returns zero
// when the file cannot be parsed, the duration is informational only.
func probeDuration(file *os.File) (durationMs int64) {
	// Truncated boxes can make the decoder panic.
	defer func() {
		if recover() != nil {
			durationMs = 0
		}
	}()
	if _, err := file.Seek(0, 0); err != nil {
		return 0
	}
	parsed, err := mp4.DecodeFile(file, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil || parsed.Moov == nil || parsed.Moov.Mvhd == nil {
		return 0
	}
	mvhd := parsed.Moov.Mvhd
	if mvhd.Timescale == 0 {
		return 0
	}
	return int64(mvhd.Duration * 1000 / uint64(mvhd.Timescale))
}
