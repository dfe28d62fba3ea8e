package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"
	"github.com/google/uuid"

	"github.com/flarexio/docqa"
	"github.com/flarexio/docqa/extract"
	"github.com/flarexio/docqa/translate"
)

const (
	MaxFileSize = 200 << 20
	MaxWords    = 8000
)

// statusCode maps caller mistakes to 400 and everything else to 417.
func statusCode(err error) int {
	switch {
	case errors.Is(err, docqa.ErrInvalidSessionID),
		errors.Is(err, docqa.ErrNoDocuments),
		errors.Is(err, docqa.ErrEmptyDocument),
		errors.Is(err, docqa.ErrEmptyQuestion),
		errors.Is(err, docqa.ErrEmptyText),
		errors.Is(err, docqa.ErrUnknownSummarySize),
		errors.Is(err, translate.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	default:
		return http.StatusExpectationFailed
	}
}

func fail(c *gin.Context, status int, err error) {
	c.String(status, err.Error())
	c.Error(err)
	c.Abort()
}

func CreateSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"session_id": uuid.NewString(),
		})
	}
}

type FileStatus struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Chunks   int    `json:"chunks,omitempty"`
}

type UploadResponse struct {
	Message      string       `json:"message"`
	Files        []FileStatus `json:"files"`
	SuccessCount int          `json:"success_count"`
	TotalCount   int          `json:"total_count"`
}

// UploadHandler extracts each uploaded file and indexes it under the
// session. A failing file does not stop the others.
func UploadHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")
		if sessionID == "" {
			fail(c, http.StatusBadRequest, docqa.ErrInvalidSessionID)
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		files := form.File["files"]

		selected := false
		for _, file := range files {
			if file.Filename != "" {
				selected = true
				break
			}
		}

		if !selected {
			fail(c, http.StatusBadRequest, errors.New("no files selected"))
			return
		}

		ctx := c.Request.Context()

		statuses := make([]FileStatus, 0, len(files))
		success := 0

		for _, file := range files {
			if file.Filename == "" {
				continue
			}

			status := FileStatus{
				Filename: file.Filename,
				Status:   "error",
			}

			switch {
			case !extract.Allowed(file.Filename):
				status.Message = "File type not supported. Allowed types: " + strings.Join(extract.Extensions, ", ")

			case file.Size > MaxFileSize:
				status.Message = fmt.Sprintf("File too large. Maximum size: %dMB", MaxFileSize>>20)

			case file.Size == 0:
				status.Message = "File is empty"

			default:
				chunks, words, err := processFile(ctx, endpoint, sessionID, file)
				if err != nil {
					status.Message = "Processing error: " + err.Error()
					break
				}

				status.Size = file.Size
				status.Status = "processed"
				status.Chunks = chunks
				status.Message = fmt.Sprintf("Successfully processed - %d words extracted", words)
				success++
			}

			statuses = append(statuses, status)
		}

		message := fmt.Sprintf("Successfully processed %d out of %d files", success, len(files))
		if success == 0 {
			message = "No files were successfully processed"
		}

		c.JSON(http.StatusOK, &UploadResponse{
			Message:      message,
			Files:        statuses,
			SuccessCount: success,
			TotalCount:   len(files),
		})
	}
}

func processFile(ctx context.Context, endpoint endpoint.Endpoint, sessionID string, file *multipart.FileHeader) (int, int, error) {
	f, err := file.Open()
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxFileSize))
	if err != nil {
		return 0, 0, err
	}

	text, err := extract.Extract(file.Filename, content)
	if err != nil {
		return 0, 0, err
	}

	req := docqa.AddDocumentRequest{
		SessionID: sessionID,
		Content:   text,
		Source:    file.Filename,
	}

	resp, err := endpoint(ctx, req)
	if err != nil {
		return 0, 0, err
	}

	result, ok := resp.(docqa.AddDocumentResponse)
	if !ok {
		return 0, 0, errors.New("invalid response type")
	}

	return result.Chunks, len(strings.Fields(text)), nil
}

func AddDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docqa.AddDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		req.SessionID = c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func AskHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docqa.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		req.SessionID = c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func GetDocumentsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, sessionID)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"documents": resp,
		})
	}
}

type SummarizeTextResponse struct {
	Summary   string `json:"summary"`
	WordCount int    `json:"word_count"`
}

func SummarizeHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docqa.SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			fail(c, http.StatusBadRequest, docqa.ErrEmptyText)
			return
		}

		words := len(strings.Fields(req.Text))
		if words > MaxWords {
			err := fmt.Errorf("text exceeds %d word limit, currently %d words", MaxWords, words)
			fail(c, http.StatusBadRequest, err)
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		result, ok := resp.(docqa.SummaryResponse)
		if !ok {
			fail(c, http.StatusInternalServerError, errors.New("invalid response type"))
			return
		}

		c.JSON(http.StatusOK, &SummarizeTextResponse{
			Summary:   result.Summary,
			WordCount: words,
		})
	}
}

func SummarizeSessionHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docqa.SummarizeSessionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				fail(c, http.StatusBadRequest, err)
				return
			}
		}

		req.SessionID = c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func HistoryHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, sessionID)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func ClearSessionHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		ctx := c.Request.Context()
		_, err := endpoint(ctx, sessionID)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.String(http.StatusOK, "OK")
	}
}

func HasSessionHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, sessionID)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func TranslateHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req translate.TranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func LanguagesHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		resp, err := endpoint(ctx, nil)
		if err != nil {
			fail(c, statusCode(err), err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"languages": resp,
		})
	}
}
