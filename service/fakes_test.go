package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"legaldocs-backend/models"
	"legaldocs-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory stores standing in for the pgx repositories. Misses return
// pgx.ErrNoRows so sentinel mapping is exercised the same way as in
// production.

type fakeDocumentStore struct {
	docs map[uuid.UUID]*models.Document
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[uuid.UUID]*models.Document)}
}

func (f *fakeDocumentStore) Create(_ context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeDocumentStore) List(_ context.Context, filter repository.DocumentFilter) ([]*models.Document, int, error) {
	var out []*models.Document
	for _, doc := range f.docs {
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		if filter.Step != nil && doc.CurrentStep != *filter.Step {
			continue
		}
		cp := *doc
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeDocumentStore) Update(_ context.Context, doc *models.Document) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return pgx.ErrNoRows
	}
	doc.UpdatedAt = time.Now()
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocumentStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.docs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentStore) Count(_ context.Context) (int, error) {
	return len(f.docs), nil
}

func (f *fakeDocumentStore) CountByStatus(_ context.Context) (map[models.DocumentStatus]int, error) {
	out := make(map[models.DocumentStatus]int)
	for _, doc := range f.docs {
		out[doc.Status]++
	}
	return out, nil
}

func (f *fakeDocumentStore) CountByStep(_ context.Context) (map[models.PipelineStep]int, error) {
	out := make(map[models.PipelineStep]int)
	for _, doc := range f.docs {
		out[doc.CurrentStep]++
	}
	return out, nil
}

type fakeTextStore struct {
	texts map[uuid.UUID]*models.ExtractedText
}

func newFakeTextStore() *fakeTextStore {
	return &fakeTextStore{texts: make(map[uuid.UUID]*models.ExtractedText)}
}

func (f *fakeTextStore) Upsert(_ context.Context, et *models.ExtractedText) error {
	if existing, ok := f.texts[et.DocumentID]; ok {
		et.ID = existing.ID
	} else if et.ID == uuid.Nil {
		et.ID = uuid.New()
	}
	now := time.Now()
	et.ProcessedAt = &now
	cp := *et
	f.texts[et.DocumentID] = &cp
	return nil
}

func (f *fakeTextStore) GetByDocumentID(_ context.Context, documentID uuid.UUID) (*models.ExtractedText, error) {
	et, ok := f.texts[documentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *et
	return &cp, nil
}

type fakeChunkStore struct {
	chunks map[uuid.UUID][]*models.DocumentChunk
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: make(map[uuid.UUID][]*models.DocumentChunk)}
}

func (f *fakeChunkStore) Replace(_ context.Context, documentID uuid.UUID, chunks []*models.DocumentChunk) error {
	stored := make([]*models.DocumentChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.DocumentID = documentID
		cp := *c
		stored = append(stored, &cp)
	}
	f.chunks[documentID] = stored
	return nil
}

func (f *fakeChunkStore) ListByDocumentID(_ context.Context, documentID uuid.UUID) ([]*models.DocumentChunk, error) {
	return f.chunks[documentID], nil
}

func (f *fakeChunkStore) GetByID(_ context.Context, id uuid.UUID) (*models.DocumentChunk, error) {
	for _, set := range f.chunks {
		for _, c := range set {
			if c.ID == id {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeChunkStore) Update(_ context.Context, chunk *models.DocumentChunk) error {
	set := f.chunks[chunk.DocumentID]
	for i, c := range set {
		if c.ID == chunk.ID {
			cp := *chunk
			set[i] = &cp
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeMetadataStore struct {
	metadata map[uuid.UUID]*models.DocumentMetadata
}

func newFakeMetadataStore() *fakeMetadataStore {
	return &fakeMetadataStore{metadata: make(map[uuid.UUID]*models.DocumentMetadata)}
}

func (f *fakeMetadataStore) GetByDocumentID(_ context.Context, documentID uuid.UUID) (*models.DocumentMetadata, error) {
	md, ok := f.metadata[documentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *md
	return &cp, nil
}

func (f *fakeMetadataStore) Upsert(_ context.Context, md *models.DocumentMetadata) error {
	if existing, ok := f.metadata[md.DocumentID]; ok {
		md.ID = existing.ID
		md.Summary = existing.Summary
		md.KeyPoints = existing.KeyPoints
	} else if md.ID == uuid.Nil {
		md.ID = uuid.New()
	}
	cp := *md
	f.metadata[md.DocumentID] = &cp
	return nil
}

func (f *fakeMetadataStore) SaveSummary(_ context.Context, md *models.DocumentMetadata) error {
	if existing, ok := f.metadata[md.DocumentID]; ok {
		existing.Summary = md.Summary
		existing.KeyPoints = md.KeyPoints
		*md = *existing
		return nil
	}
	if md.ID == uuid.Nil {
		md.ID = uuid.New()
	}
	cp := *md
	f.metadata[md.DocumentID] = &cp
	return nil
}

type fakeTaskStore struct {
	tasks map[uuid.UUID]*models.PipelineTask
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*models.PipelineTask)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.PipelineTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*models.PipelineTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *task
	return &cp, nil
}

func (f *fakeTaskStore) GetByDocumentAndStep(_ context.Context, documentID uuid.UUID, step models.PipelineStep) (*models.PipelineTask, error) {
	for _, task := range f.tasks {
		if task.DocumentID == documentID && task.Step == step {
			cp := *task
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTaskStore) Update(_ context.Context, task *models.PipelineTask) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	task.UpdatedAt = time.Now()
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) ListByAssigneeAndStatus(_ context.Context, userID uuid.UUID, status models.TaskStatus) ([]*models.PipelineTask, error) {
	var out []*models.PipelineTask
	for _, task := range f.tasks {
		if task.AssignedToID != nil && *task.AssignedToID == userID && task.Status == status {
			cp := *task
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListCompletedSince(_ context.Context, userID uuid.UUID, since time.Time) ([]*models.PipelineTask, error) {
	var out []*models.PipelineTask
	for _, task := range f.tasks {
		if task.AssignedToID != nil && *task.AssignedToID == userID &&
			task.Status == models.TaskStatusCompleted &&
			task.CompletedAt != nil && !task.CompletedAt.Before(since) {
			cp := *task
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListAvailable(_ context.Context, step *models.PipelineStep) ([]*models.PipelineTask, error) {
	var out []*models.PipelineTask
	for _, task := range f.tasks {
		if task.AssignedToID != nil || task.Status != models.TaskStatusPending {
			continue
		}
		if step != nil && task.Step != *step {
			continue
		}
		cp := *task
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTaskStore) CountByStatus(_ context.Context, status models.TaskStatus) (int, error) {
	n := 0
	for _, task := range f.tasks {
		if task.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskStore) CountCompletedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, task := range f.tasks {
		if task.Status == models.TaskStatusCompleted &&
			task.CompletedAt != nil && !task.CompletedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeReviewStore struct {
	reviews map[uuid.UUID][]*models.QAReview
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[uuid.UUID][]*models.QAReview)}
}

func (f *fakeReviewStore) Create(_ context.Context, review *models.QAReview) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	cp := *review
	f.reviews[review.DocumentID] = append(f.reviews[review.DocumentID], &cp)
	return nil
}

func (f *fakeReviewStore) ListByDocumentID(_ context.Context, documentID uuid.UUID) ([]*models.QAReview, error) {
	return f.reviews[documentID], nil
}

type fakePublishedStore struct {
	published map[uuid.UUID]*models.PublishedDocument
}

func newFakePublishedStore() *fakePublishedStore {
	return &fakePublishedStore{published: make(map[uuid.UUID]*models.PublishedDocument)}
}

func (f *fakePublishedStore) Upsert(_ context.Context, pub *models.PublishedDocument) error {
	now := time.Now()
	if existing, ok := f.published[pub.DocumentID]; ok {
		pub.ID = existing.ID
		pub.Version = existing.Version + 1
	} else {
		if pub.ID == uuid.Nil {
			pub.ID = uuid.New()
		}
		pub.Version = 1
	}
	pub.IsActive = true
	pub.PublishedAt = now
	cp := *pub
	f.published[pub.DocumentID] = &cp
	return nil
}

func (f *fakePublishedStore) GetByDocumentID(_ context.Context, documentID uuid.UUID) (*models.PublishedDocument, error) {
	pub, ok := f.published[documentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *pub
	return &cp, nil
}

func (f *fakePublishedStore) CountPublishedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, pub := range f.published {
		if !pub.PublishedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	users    map[uuid.UUID]*models.User
	lawyers  map[uuid.UUID]*models.LawyerProfile
	firms    map[uuid.UUID]*models.FirmProfile
	lastSeen map[uuid.UUID]time.Time
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[uuid.UUID]*models.User),
		lawyers:  make(map[uuid.UUID]*models.LawyerProfile),
		firms:    make(map[uuid.UUID]*models.FirmProfile),
		lastSeen: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	f.lastSeen[id] = at
	return nil
}

func (f *fakeUserStore) CreateLawyerProfile(_ context.Context, profile *models.LawyerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	cp := *profile
	f.lawyers[profile.UserID] = &cp
	return nil
}

func (f *fakeUserStore) CreateFirmProfile(_ context.Context, profile *models.FirmProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	cp := *profile
	f.firms[profile.UserID] = &cp
	return nil
}

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	path := "documents/" + docID.String() + "/" + filename
	f.files[path] = content
	return path, nil
}

func (f *fakeStorage) Download(_ context.Context, storagePath string) (io.ReadCloser, error) {
	content, ok := f.files[storagePath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", storagePath)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeStorage) Delete(_ context.Context, storagePath string) error {
	delete(f.files, storagePath)
	return nil
}
