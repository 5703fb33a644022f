package stderr

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// maxLine caps how much of a single line is logged.
const maxLine = 4096

// Forward logs every non-blank line read from r until EOF or a read error.
// Lines of any length are consumed so the writer never blocks on a full
// pipe; only the first maxLine bytes of each are logged.
func Forward(r io.Reader, log *zap.Logger) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if len(line) > maxLine {
				line = line[:maxLine]
			}
			log.Warn("native library output", zap.String("line", line))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("stderr forwarding stopped", zap.Error(err))
			}
			return
		}
	}
}
