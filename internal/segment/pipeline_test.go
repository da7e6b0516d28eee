package segment

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/mock/gomock"

	"tcgen/internal/chunker"
	"tcgen/internal/extract"
	"tcgen/internal/segment/mocks"
	"tcgen/internal/storage"
	storage_mocks "tcgen/internal/storage/mocks"
)

func TestNewPipeline_Defaults(t *testing.T) {
	_, docs, chunks := newStores(t)

	p := NewPipeline(docs, chunks, nil, Config{})

	mode, params := p.Defaults()
	if mode != chunker.ModeFixed {
		t.Errorf("Defaults() mode = %q, want fixed", mode)
	}
	if params != chunker.DefaultParams() {
		t.Errorf("Defaults() params = %+v, want %+v", params, chunker.DefaultParams())
	}
	if p.workers != DefaultWorkers {
		t.Errorf("workers = %d, want %d", p.workers, DefaultWorkers)
	}
	if p.PublishEnabled() {
		t.Error("PublishEnabled() = true with nil publisher")
	}
}

func TestPipeline_ProcessText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: unpersisted text must not touch storage.
	docs := storage_mocks.NewMockDocumentStore(ctrl)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	p := NewPipeline(docs, chunks, nil, Config{Params: chunker.Params{ChunkSize: 40, Overlap: 5}})

	text := "First sentence here. Second sentence here. Third sentence here."

	tests := []struct {
		name       string
		req        TextRequest
		wantParams chunker.Params
		wantMode   chunker.Mode
		wantTexts  []string
		wantErr    bool
	}{
		{
			name:       "defaults",
			req:        TextRequest{Text: text},
			wantParams: chunker.Params{ChunkSize: 40, Overlap: 5},
			wantMode:   chunker.ModeFixed,
			wantTexts:  chunker.Split(chunker.Preprocess(text), chunker.Params{ChunkSize: 40, Overlap: 5}),
		},
		{
			name: "overrides are auto-corrected",
			req: TextRequest{Text: text, Options: Options{
				ChunkSize: intPtr(100),
				Overlap:   intPtr(150),
			}},
			wantParams: chunker.Params{ChunkSize: 300, Overlap: 150},
			wantMode:   chunker.ModeFixed,
			wantTexts:  []string{text},
		},
		{
			name: "section mode keeps line structure",
			req: TextRequest{
				Text:    "Intro text\n1. First\nBody A\n2. Second\nBody B",
				Options: Options{Mode: chunker.ModeSections},
			},
			wantParams: chunker.Params{ChunkSize: 40, Overlap: 5},
			wantMode:   chunker.ModeSections,
			wantTexts:  []string{"Intro text", "\n1. First\nBody A", "\n2. Second\nBody B"},
		},
		{
			name:       "empty text",
			req:        TextRequest{Text: ""},
			wantParams: chunker.Params{ChunkSize: 40, Overlap: 5},
			wantMode:   chunker.ModeFixed,
			wantTexts:  []string{},
		},
		{
			name:    "unknown mode",
			req:     TextRequest{Text: text, Options: Options{Mode: "pages"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ProcessText(context.Background(), tt.req)
			if tt.wantErr {
				if err == nil {
					t.Error("ProcessText() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ProcessText() unexpected error: %v", err)
			}
			if res.Params != tt.wantParams {
				t.Errorf("Params = %+v, want %+v", res.Params, tt.wantParams)
			}
			if res.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", res.Mode, tt.wantMode)
			}
			if res.DocumentID != "" || res.Reused || res.Published {
				t.Errorf("unpersisted result has storage fields set: %+v", res)
			}
			if got := res.Texts(); !reflect.DeepEqual(got, tt.wantTexts) {
				t.Errorf("Texts() = %q, want %q", got, tt.wantTexts)
			}
			if res.Stats.Chunks != len(tt.wantTexts) {
				t.Errorf("Stats.Chunks = %d, want %d", res.Stats.Chunks, len(tt.wantTexts))
			}
			for i, c := range res.Chunks {
				if c.Index != i {
					t.Errorf("Chunks[%d].Index = %d", i, c.Index)
				}
			}
		})
	}
}

func TestPipeline_ProcessText_PersistReuses(t *testing.T) {
	_, docs, chunks := newStores(t)
	p := NewPipeline(docs, chunks, nil, Config{})
	ctx := context.Background()

	req := TextRequest{Text: "Alpha. Beta. Gamma.", FileName: "note.txt", Persist: true}

	first, err := p.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if first.DocumentID == "" || first.Reused {
		t.Fatalf("first ProcessText() = %+v, want new stored document", first)
	}

	second, err := p.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if !second.Reused || second.DocumentID != first.DocumentID {
		t.Errorf("second ProcessText() reused=%v id=%q, want reuse of %q", second.Reused, second.DocumentID, first.DocumentID)
	}
	if !reflect.DeepEqual(second.Texts(), first.Texts()) {
		t.Errorf("reused chunks = %q, want %q", second.Texts(), first.Texts())
	}

	req.Options.Overlap = intPtr(10)
	third, err := p.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if third.Reused || third.DocumentID == first.DocumentID {
		t.Error("different params should produce a new document")
	}
}

func TestPipeline_ProcessFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, docs, chunks := newStores(t)
	publisher := mocks.NewMockPublisher(ctrl)
	p := NewPipeline(docs, chunks, publisher, Config{Mode: chunker.ModeSections})
	ctx := context.Background()

	path := writeDOCX(t, t.TempDir(), "upload-123.docx",
		"Intro text", "1. First", "Body A", "2. Second", "Body B")

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord, recs []*storage.ChunkRecord) error {
			if doc.FileName != "기획서.docx" || doc.Format != string(extract.FormatDOCX) || doc.Mode != "sections" {
				t.Errorf("Publish() doc = %+v", doc)
			}
			if len(recs) != 3 {
				t.Errorf("Publish() got %d chunks, want 3", len(recs))
			}
			for i, r := range recs {
				if r.ID == "" || r.DocumentID != doc.ID || r.ChunkIndex != i {
					t.Errorf("Publish() chunk %d = %+v", i, r)
				}
			}
			return nil
		}).
		Times(1)

	req := FileRequest{Path: path, FileName: "기획서.docx"}
	res, err := p.ProcessFile(ctx, req)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}

	want := []string{"Intro text", "\n1. First\nBody A", "\n2. Second\nBody B\n"}
	if !reflect.DeepEqual(res.Texts(), want) {
		t.Errorf("ProcessFile() texts = %q, want %q", res.Texts(), want)
	}
	if !res.Published || res.Reused || res.Format != ".docx" || res.FileName != "기획서.docx" {
		t.Errorf("ProcessFile() result = %+v", res)
	}

	// Same bytes and settings: served from storage, not published again.
	again, err := p.ProcessFile(ctx, req)
	if err != nil {
		t.Fatalf("ProcessFile() second call error = %v", err)
	}
	if !again.Reused || !again.Published || again.DocumentID != res.DocumentID {
		t.Errorf("second ProcessFile() = %+v, want published reuse of %s", again, res.DocumentID)
	}

	stored, err := p.Get(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(stored.Texts(), want) || stored.Reused {
		t.Errorf("Get() = %+v", stored)
	}
}

func TestPipeline_ProcessFile_Errors(t *testing.T) {
	_, docs, chunks := newStores(t)
	p := NewPipeline(docs, chunks, nil, Config{})
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		mode    chunker.Mode
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), wantErr: extract.ErrFileNotFound},
		{name: "unsupported format", path: filepath.Join(dir, "notes.txt"), wantErr: extract.ErrUnsupportedFormat},
	}
	writeDOCX(t, dir, "notes.txt", "x")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ProcessFile(context.Background(), FileRequest{Path: tt.path, Options: Options{Mode: tt.mode}})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ProcessFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_Reuse_PublishesStoredDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, docs, chunks := newStores(t)
	ctx := context.Background()
	req := TextRequest{Text: "Alpha. Beta. Gamma.", FileName: "note.txt", Persist: true}

	// Stored without a publisher, as the CLI or a server without Qdrant does.
	offline := NewPipeline(docs, chunks, nil, Config{})
	first, err := offline.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if first.Published {
		t.Fatal("ProcessText() without publisher reported Published")
	}

	publisher := mocks.NewMockPublisher(ctrl)
	online := NewPipeline(docs, chunks, publisher, Config{})
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord, recs []*storage.ChunkRecord) error {
			if doc.ID != first.DocumentID {
				t.Errorf("Publish() doc.ID = %q, want %q", doc.ID, first.DocumentID)
			}
			if len(recs) != len(first.Chunks) {
				t.Errorf("Publish() got %d chunks, want %d", len(recs), len(first.Chunks))
			}
			return nil
		}).
		Times(1)

	second, err := online.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if !second.Reused || !second.Published || second.DocumentID != first.DocumentID {
		t.Errorf("second ProcessText() = %+v, want published reuse", second)
	}

	// Already published: served from storage without another Publish.
	third, err := online.ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if !third.Reused || !third.Published {
		t.Errorf("third ProcessText() = %+v", third)
	}

	stored, err := offline.Get(ctx, first.DocumentID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !stored.Published {
		t.Error("Get() Published = false after publishing on reuse")
	}
}

func TestPipeline_Reuse_PublishFailureKeepsDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, docs, chunks := newStores(t)
	ctx := context.Background()
	req := TextRequest{Text: "Alpha. Beta.", Persist: true}

	first, err := NewPipeline(docs, chunks, nil, Config{}).ProcessText(ctx, req)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}

	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("qdrant down"))
	online := NewPipeline(docs, chunks, publisher, Config{})

	if _, err := online.ProcessText(ctx, req); !errors.Is(err, ErrPublish) {
		t.Fatalf("ProcessText() error = %v, want ErrPublish", err)
	}

	doc, err := docs.GetByID(ctx, first.DocumentID)
	if err != nil {
		t.Fatalf("GetByID() error = %v, stored document must survive", err)
	}
	if doc.Published {
		t.Error("document marked published after failed publish")
	}
}

func TestPipeline_Reuse_KeepsRequestFileName(t *testing.T) {
	_, docs, chunks := newStores(t)
	p := NewPipeline(docs, chunks, nil, Config{Workers: 1})
	dir := t.TempDir()

	reqs := []FileRequest{
		{Path: writeDOCX(t, dir, "a.docx", "Same body"), FileName: "plans/a.docx"},
		{Path: writeDOCX(t, dir, "b.docx", "Same body"), FileName: "copies/b.docx"},
	}

	results, err := p.ProcessFiles(context.Background(), reqs)
	if err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("results[%d].Err = %v", i, r.Err)
		}
		if r.Result.FileName != reqs[i].FileName {
			t.Errorf("results[%d].FileName = %q, want %q", i, r.Result.FileName, reqs[i].FileName)
		}
	}
	if !results[1].Result.Reused || results[1].Result.DocumentID != results[0].Result.DocumentID {
		t.Errorf("identical content should reuse the first document: %+v", results[1].Result)
	}
}

func TestPipeline_ProcessFile_PublishFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, docs, chunks := newStores(t)
	publisher := mocks.NewMockPublisher(ctrl)
	p := NewPipeline(docs, chunks, publisher, Config{})
	ctx := context.Background()

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("qdrant down"))

	path := writeDOCX(t, t.TempDir(), "plan.docx", "Body")
	if _, err := p.ProcessFile(ctx, FileRequest{Path: path}); !errors.Is(err, ErrPublish) {
		t.Fatalf("ProcessFile() error = %v, want ErrPublish", err)
	}

	list, err := docs.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("rollback left %d documents", len(list))
	}
}

func TestPipeline_ProcessText_ChunkInsertFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := storage_mocks.NewMockDocumentStore(ctrl)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	p := NewPipeline(docs, chunks, nil, Config{})

	var insertedID string
	gomock.InOrder(
		docs.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound),
		docs.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord) error {
			insertedID = doc.ID
			return nil
		}),
		chunks.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
		docs.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id string) error {
			if id != insertedID {
				t.Errorf("Delete() id = %q, want %q", id, insertedID)
			}
			return nil
		}),
	)

	_, err := p.ProcessText(context.Background(), TextRequest{Text: "Hello. World.", Persist: true})
	if err == nil {
		t.Fatal("ProcessText() expected error")
	}
}

func TestPipeline_ProcessText_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := storage_mocks.NewMockDocumentStore(ctrl)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	p := NewPipeline(docs, chunks, nil, Config{})

	dbErr := errors.New("database is locked")
	docs.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := p.ProcessText(context.Background(), TextRequest{Text: "x", Persist: true})
	if !errors.Is(err, dbErr) {
		t.Errorf("ProcessText() error = %v, want wrapped %v", err, dbErr)
	}
}

func TestPipeline_ProcessFiles(t *testing.T) {
	_, docs, chunks := newStores(t)
	p := NewPipeline(docs, chunks, nil, Config{Workers: 2})
	dir := t.TempDir()

	reqs := []FileRequest{
		{Path: writeDOCX(t, dir, "a.docx", "Alpha")},
		{Path: filepath.Join(dir, "missing.docx")},
		{Path: writeDOCX(t, dir, "b.docx", "Beta")},
		{Path: writeDOCX(t, dir, "c.docx", "Gamma")},
	}

	results, err := p.ProcessFiles(context.Background(), reqs)
	if err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("ProcessFiles() returned %d results, want %d", len(results), len(reqs))
	}

	wantText := map[int]string{0: "Alpha ", 2: "Beta ", 3: "Gamma "}
	for i, r := range results {
		if r.Path != reqs[i].Path {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, reqs[i].Path)
		}
		if i == 1 {
			if !errors.Is(r.Err, extract.ErrFileNotFound) {
				t.Errorf("results[1].Err = %v, want ErrFileNotFound", r.Err)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
			continue
		}
		if got := r.Result.Texts(); len(got) != 1 || got[0] != wantText[i] {
			t.Errorf("results[%d] texts = %q, want [%q]", i, got, wantText[i])
		}
	}
}

func TestPipeline_ProcessFiles_Cancelled(t *testing.T) {
	_, docs, chunks := newStores(t)
	p := NewPipeline(docs, chunks, nil, Config{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeDOCX(t, t.TempDir(), "a.docx", "Alpha")
	_, err := p.ProcessFiles(ctx, []FileRequest{{Path: path}, {Path: path}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessFiles() error = %v, want context.Canceled", err)
	}
}

func TestPipeline_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, docs, chunks := newStores(t)
	publisher := mocks.NewMockPublisher(ctrl)
	p := NewPipeline(docs, chunks, publisher, Config{})
	ctx := context.Background()

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	res, err := p.ProcessText(ctx, TextRequest{Text: "Keep. Me.", Persist: true})
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}

	publisher.EXPECT().Unpublish(gomock.Any(), res.DocumentID).Return(nil)
	if err := p.Delete(ctx, res.DocumentID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := p.Get(ctx, res.DocumentID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
	if err := p.Delete(ctx, res.DocumentID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
