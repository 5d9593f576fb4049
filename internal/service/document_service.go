package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/cache"
	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/extraction"
	"ai-pdfstudy-be/pkg/storage"
)

// ErrStorageFetch aborts a request whose document could not be downloaded.
var ErrStorageFetch = storage.ErrFetch

// Upload statuses are part of the client contract and are returned verbatim.
const (
	StatusNoExtension   = "You need to upload a file that has an extension"
	StatusNotPDF        = "Make sure you upload a PDF file only!"
	StatusEmptyPDF      = "Please make sure you upload a non-empty PDF document"
	StatusTooManyPages  = "PDFs with a page count greater than 75 are not allowed. Please try again!"
	StatusDuplicateFile = "This file already exists. Please select a different one and try again"
	StatusUploadOK      = "PDF OK"
	StatusUploadFailed  = "Error when uploading the file. Please try again!"
)

const DefaultMaxUploadPages = 75

type IDocumentService interface {
	Upload(ctx context.Context, owner string, file *multipart.FileHeader) *dto.UploadFileResponse
	CheckFiles(ctx context.Context, owner string) (*dto.CheckFilesResponse, error)
	FetchFiles(ctx context.Context, owner string) (*dto.FetchFilesResponse, error)
	// LoadText downloads a stored PDF through its signed URL and extracts its
	// pages, using the text cache when possible.
	LoadText(ctx context.Context, owner, file string) (document.Text, error)
}

type documentService struct {
	store          storage.ObjectStore
	fetcher        *storage.Fetcher
	extractor      extraction.Extractor
	textCache      *cache.DocumentCache
	eventPublisher events.Publisher
	logger         logger.ILogger
	maxPages       int
}

func NewDocumentService(
	store storage.ObjectStore,
	fetcher *storage.Fetcher,
	extractor extraction.Extractor,
	textCache *cache.DocumentCache,
	eventPublisher events.Publisher,
	log logger.ILogger,
	maxPages int,
) IDocumentService {
	if maxPages <= 0 {
		maxPages = DefaultMaxUploadPages
	}
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &documentService{
		store:          store,
		fetcher:        fetcher,
		extractor:      extractor,
		textCache:      textCache,
		eventPublisher: eventPublisher,
		logger:         log,
		maxPages:       maxPages,
	}
}

func (s *documentService) Upload(ctx context.Context, owner string, fh *multipart.FileHeader) *dto.UploadFileResponse {
	status, err := s.upload(ctx, owner, fh)
	if err != nil {
		s.logger.Error("DOCUMENT", "Upload failed", map[string]interface{}{
			"owner": owner,
			"file":  fh.Filename,
			"error": err.Error(),
		})
		return &dto.UploadFileResponse{Status: StatusUploadFailed}
	}
	return &dto.UploadFileResponse{Status: status}
}

func (s *documentService) upload(ctx context.Context, owner string, fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(fh.Filename)
	ext := filepath.Ext(name)
	if ext == "" {
		return StatusNoExtension, nil
	}
	if !strings.EqualFold(ext, ".pdf") {
		return StatusNotPDF, nil
	}
	if fh.Size == 0 {
		return StatusEmptyPDF, nil
	}

	data, err := readUpload(fh)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return StatusEmptyPDF, nil
	}

	pages, err := extraction.PageCount(data)
	if err != nil {
		return "", err
	}
	if pages > s.maxPages {
		return StatusTooManyPages, nil
	}

	// Stored names always carry a lower-case extension so duplicates are
	// detected regardless of how the client spelled it.
	stored := strings.TrimSuffix(name, ext) + ".pdf"
	exists, err := s.store.Exists(ctx, owner, stored)
	if err != nil {
		return "", err
	}
	if exists {
		return StatusDuplicateFile, nil
	}

	if err := s.store.Put(ctx, owner, stored, bytes.NewReader(data), "application/pdf"); err != nil {
		return "", err
	}

	s.logger.Info("DOCUMENT", "Uploaded PDF", map[string]interface{}{
		"owner": owner,
		"file":  stored,
		"pages": pages,
		"bytes": len(data),
	})
	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.TypeDocumentUploaded, map[string]interface{}{
		"owner": owner,
		"file":  stored,
		"pages": pages,
	}))
	return StatusUploadOK, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *documentService) CheckFiles(ctx context.Context, owner string) (*dto.CheckFilesResponse, error) {
	files, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &dto.CheckFilesResponse{FilesExist: len(files) > 0}, nil
}

func (s *documentService) FetchFiles(ctx context.Context, owner string) (*dto.FetchFilesResponse, error) {
	files, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}
	return &dto.FetchFilesResponse{Files: files}, nil
}

func (s *documentService) LoadText(ctx context.Context, owner, file string) (document.Text, error) {
	if s.textCache != nil {
		text, found, err := s.textCache.Get(ctx, owner, file)
		if err != nil {
			s.logger.Warn("DOCUMENT", "Text cache read failed", map[string]interface{}{
				"owner": owner,
				"file":  file,
				"error": err.Error(),
			})
		} else if found {
			return text, nil
		}
	}

	data, err := s.fetcher.Fetch(ctx, owner, file)
	if err != nil {
		return document.Text{}, err
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return document.Text{}, fmt.Errorf("extract %s: %w", file, err)
	}

	if s.textCache != nil {
		if err := s.textCache.Set(ctx, owner, file, text); err != nil {
			s.logger.Warn("DOCUMENT", "Text cache write failed", map[string]interface{}{
				"owner": owner,
				"file":  file,
				"error": err.Error(),
			})
		}
	}
	return text, nil
}
