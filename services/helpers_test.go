package services

import (
	"context"
	"errors"
	"io"
	"sync"
)

type fakeStorage struct {
	mu       sync.Mutex
	failPDF  bool
	pdfCalls int
}

func (f *fakeStorage) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	return "https://cdn.example.com/" + folder + "/image.png", nil
}

func (f *fakeStorage) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pdfCalls++
	if f.failPDF {
		return "", errors.New("storage unavailable")
	}
	return "https://cdn.example.com/prescriptions/" + publicID + ".pdf", nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderPrescription(doc PrescriptionDocument) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Prescription.ID.Hex()), nil
}

type fakeVerifier struct {
	verified bool
	err      error
}

func (f fakeVerifier) Verify(ctx context.Context, transactionID string) (bool, error) {
	return f.verified, f.err
}

type fakeLimiter struct {
	mu       sync.Mutex
	locked   bool
	failures int
	limit    int
}

func (f *fakeLimiter) Locked(ctx context.Context, email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locked
}

func (f *fakeLimiter) RegisterFailure(ctx context.Context, email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
	if f.limit > 0 && f.failures >= f.limit {
		f.locked = true
	}
	return f.locked
}

func (f *fakeLimiter) Clear(ctx context.Context, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = 0
	f.locked = false
}
