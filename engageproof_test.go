package engageproof

import (
	"context"
	"testing"
	"time"

	"github.com/devanshd78/Backend-MHD1/block"
	"github.com/devanshd78/Backend-MHD1/engine"
	"github.com/devanshd78/Backend-MHD1/ocr"
)

type staticOCR struct{}

func (staticOCR) Recognize(context.Context, []byte) ocr.Outcome {
	return ocr.Success(nil)
}

func TestAnalyzerEndToEnd(t *testing.T) {
	cfg := engine.Config{
		OCRTimeout:      time.Second,
		OCRThreads:      2,
		TesseractCmd:    "tesseract",
		CacheDisable:    true,
		MaxSide:         1100,
		MinComments:     2,
		MinReplies:      2,
		SimilaritySame:  0.90,
		SimilarityCross: 0.88,
		MaxConcurrent:   2,
		AcquireTimeout:  100 * time.Millisecond,
	}

	a, err := New(cfg, WithOCR(staticOCR{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lines := func(ls ...string) engine.PanelInput {
		return engine.PanelInput{Lines: ls, HasLines: true}
	}
	report, err := a.Analyze(context.Background(), Request{
		Panels: map[block.PanelRole]engine.PanelInput{
			block.RoleComment1: lines("@tester99 · 2 days ago", "the editing here is superb"),
			block.RoleComment2: lines("@tester99 · 1 day ago", "never expected that ending"),
			block.RoleReply1:   lines("@tester99 · 5h", "totally agree with you"),
			block.RoleReply2:   lines("@tester99 · 3h", "watching again tomorrow"),
		},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.Result.Verified {
		t.Fatalf("Verified = false, reasons = %v", report.Result.Reasons)
	}
	if a.Resources() == nil {
		t.Error("Resources = nil")
	}
}
