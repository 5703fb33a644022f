package player

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned when no decoder matches a source.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type decodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var (
	decodeMP3 decodeFunc = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return mp3.Decode(rc)
	}
	decodeFLAC decodeFunc = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return flac.Decode(rc)
	}
	decodeWAV decodeFunc = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	}
	decodeVorbis decodeFunc = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return vorbis.Decode(rc)
	}
)

var decodersByExt = map[string]decodeFunc{
	".mp3":  decodeMP3,
	".flac": decodeFLAC,
	".wav":  decodeWAV,
	".wave": decodeWAV,
	".ogg":  decodeVorbis,
	".oga":  decodeVorbis,
}

var decodersByType = map[string]decodeFunc{
	"audio/mpeg":      decodeMP3,
	"audio/mp3":       decodeMP3,
	"audio/flac":      decodeFLAC,
	"audio/x-flac":    decodeFLAC,
	"audio/wav":       decodeWAV,
	"audio/wave":      decodeWAV,
	"audio/x-wav":     decodeWAV,
	"audio/vnd.wave":  decodeWAV,
	"audio/ogg":       decodeVorbis,
	"audio/vorbis":    decodeVorbis,
	"application/ogg": decodeVorbis,
}

// decoderFor picks a decoder from a hint, which is either a file name or a
// media type.
func decoderFor(hint string) (decodeFunc, error) {
	if strings.Contains(hint, "/") {
		if mediaType, _, err := mime.ParseMediaType(hint); err == nil {
			if dec, ok := decodersByType[mediaType]; ok {
				return dec, nil
			}
		}
	}
	if dec, ok := decodersByExt[strings.ToLower(path.Ext(hint))]; ok {
		return dec, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, hint)
}

// decode opens rc with the decoder matching hint. rc is closed on failure.
func decode(rc io.ReadCloser, hint string) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := decoderFor(hint)
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, err
	}
	s, format, err := dec(rc)
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("decode: %w", err)
	}
	return s, format, nil
}
