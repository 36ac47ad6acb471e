package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/output"
)

const (
	// uploadField is the multipart field holding the export.
	uploadField = "file"

	// defaultUploadName is the report source when the upload has no name.
	defaultUploadName = "upload"
)

var errMissingFile = fmt.Errorf("multipart upload has no %q field", uploadField)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePatterns(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, detector.DefaultFormats())
}

// handleAnalyze answers 200 with the report envelope, or 422 with the
// envelope and its parse counters when no messages could be read.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name, body, ok := s.openUpload(w, r)
	if !ok {
		return
	}

	started := time.Now()
	res, err := s.analyzer.Analyze(body)
	if err != nil && !errors.Is(err, analyzer.ErrNoMessagesParsed) {
		s.uploadError(w, err)
		return
	}

	report := output.NewReport(name, started, res, err)
	s.dispatch(r.Context(), report)

	status := http.StatusOK
	if !report.Succeeded() {
		status = http.StatusUnprocessableEntity
	}

	s.logger.Info("export analyzed",
		zap.String("run_id", report.RunID),
		zap.String("source", report.Source),
		zap.Int("status", status),
		zap.Int("usable_messages", report.Stats.UsableMessages),
		zap.Duration("duration", report.Duration))

	RespondJSON(w, status, report)
}

// handleDetect samples the head of the upload. The optional "n" query
// parameter sets the sample size.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var opts []detector.Option
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		opts = append(opts, detector.WithSampleSize(n))
	}

	_, body, ok := s.openUpload(w, r)
	if !ok {
		return
	}

	result, err := detector.New(opts...).DetectFromReader(r.Context(), body)
	if err != nil {
		s.uploadError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// openUpload returns the export carried by r: the "file" field of a
// multipart form, or the raw body otherwise. The body is capped at the
// configured upload size. On failure the error response is already written.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (string, io.Reader, bool) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.uploadError(w, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes})
		return "", nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = defaultUploadName
		}
		return name, r.Body, true
	}

	mr, err := r.MultipartReader()
	if err != nil {
		s.uploadError(w, err)
		return "", nil, false
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			s.uploadError(w, errMissingFile)
			return "", nil, false
		}
		if err != nil {
			s.uploadError(w, err)
			return "", nil, false
		}
		if part.FormName() != uploadField {
			continue
		}
		name := part.FileName()
		if name == "" {
			name = defaultUploadName
		}
		return name, part, true
	}
}

func (s *Server) uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("export exceeds the %s upload limit", humanize.IBytes(uint64(tooLarge.Limit))))
		return
	}
	s.logger.Debug("rejected upload", zap.Error(err))
	RespondError(w, http.StatusBadRequest, "malformed upload: "+err.Error())
}

func (s *Server) dispatch(ctx context.Context, report *output.Report) {
	if s.webhooks == nil || len(s.hooks) == 0 {
		return
	}
	s.webhooks.Dispatch(ctx, report, s.hooks)
}
