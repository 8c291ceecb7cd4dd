package internal

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TranscriptChunk is a persisted span of spoken text from one video.
// Chunks are immutable once stored; re-ingestion of a video is a no-op.
type TranscriptChunk struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	VideoID      string `gorm:"index:idx_chunk_video"`
	ChunkIndex   int
	Text         string
	StartSeconds float64
	EndSeconds   float64
	Embedding    []byte `gorm:"type:blob"`
	CreatedAt    time.Time
}

// ChunkMatch is one search hit with its similarity confidence
type ChunkMatch struct {
	VideoID      string  `json:"video_id"`
	ChunkIndex   int     `json:"chunk_index"`
	Text         string  `json:"text"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Confidence   float64 `json:"confidence"`
}

// StoreStats describes the state of the transcript store
type StoreStats struct {
	TotalChunks    int64  `json:"total_chunks"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
	Note           string `json:"note,omitempty"`
}

// OpenFunc opens a gorm database handle at path
type OpenFunc func(path string) (*gorm.DB, error)

// defaultOpen opens a SQLite database with silent gorm logging
func defaultOpen(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// OpenChunkDB opens the chunk database at path, repairing it when the
// on-disk schema conflicts with the current one. The sequence is:
// open and migrate, then reopen once on conflict, then remove the database
// files and recreate as a last resort. It never fails the whole pipeline for
// a repairable database.
func OpenChunkDB(path string, open OpenFunc, ui UIManager) (*gorm.DB, error) {
	if open == nil {
		open = defaultOpen
	}
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := openAndMigrate(path, open)
	if err == nil {
		return db, nil
	}
	ui.Verbose("Warning: chunk database open failed, reopening: %v\n", err)

	// A stale handle or half-applied migration can clear on a fresh open.
	db, err = openAndMigrate(path, open)
	if err == nil {
		return db, nil
	}
	ui.Verbose("Warning: reopen failed, recreating chunk database: %v\n", err)

	if removeErr := removeDatabaseFiles(path); removeErr != nil {
		return nil, fmt.Errorf("recreating chunk database: %w", removeErr)
	}

	db, err = openAndMigrate(path, open)
	if err != nil {
		return nil, fmt.Errorf("opening recreated chunk database: %w", err)
	}
	return db, nil
}

func openAndMigrate(path string, open OpenFunc) (*gorm.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chunk database: %w", err)
	}
	if err := db.AutoMigrate(&TranscriptChunk{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("migrating chunk schema: %w", err)
	}
	return db, nil
}

// removeDatabaseFiles deletes the SQLite file and its WAL/SHM companions
func removeDatabaseFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// TranscriptStore owns persisted transcript chunks and exposes ingestion and
// chunk-level semantic search over them.
type TranscriptStore struct {
	db       *gorm.DB
	embedder Embedder
	fetcher  TranscriptFetcher
	config   *Config
	ui       UIManager
	sleep    func(time.Duration)

	mu         sync.Mutex
	videoLocks map[string]*sync.Mutex
}

// NewTranscriptStore creates a store over an open chunk database
func NewTranscriptStore(db *gorm.DB, embedder Embedder, fetcher TranscriptFetcher, config *Config, ui UIManager) *TranscriptStore {
	return &TranscriptStore{
		db:         db,
		embedder:   embedder,
		fetcher:    fetcher,
		config:     config,
		ui:         ui,
		sleep:      time.Sleep,
		videoLocks: make(map[string]*sync.Mutex),
	}
}

// lockVideo serializes ingestion per video id so concurrent callers cannot
// race past the existence check and double-write chunks.
func (s *TranscriptStore) lockVideo(videoID string) func() {
	s.mu.Lock()
	lock, ok := s.videoLocks[videoID]
	if !ok {
		lock = &sync.Mutex{}
		s.videoLocks[videoID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Ingest fetches, chunks, embeds, and persists a video's transcript.
// It is idempotent: if chunks for videoID already exist it is a no-op
// returning true. It returns false, never an error, when no transcript is
// obtainable.
func (s *TranscriptStore) Ingest(ctx context.Context, videoID string) bool {
	unlock := s.lockVideo(videoID)
	defer unlock()

	var existing int64
	if err := s.db.Model(&TranscriptChunk{}).Where("video_id = ?", videoID).Count(&existing).Error; err != nil {
		s.ui.Verbose("Checking existing chunks for %s: %v\n", videoID, err)
		return false
	}
	if existing > 0 {
		s.ui.Verbose("Video %s already indexed (%d chunks)\n", videoID, existing)
		return true
	}

	segments, err := s.fetchWithRetry(ctx, videoID)
	if err != nil {
		s.ui.Verbose("No transcript for %s: %v\n", videoID, err)
		return false
	}

	chunks := ChunkSegments(segments, s.config.ChunkSize, s.config.ChunkOverlap)
	if len(chunks) == 0 {
		s.ui.Verbose("No chunks produced for %s\n", videoID)
		return false
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		s.ui.Verbose("Embedding transcript for %s: %v\n", videoID, err)
		return false
	}
	if len(vectors) != len(chunks) {
		s.ui.Verbose("Embedding count mismatch for %s: %d chunks, %d vectors\n", videoID, len(chunks), len(vectors))
		return false
	}

	records := make([]TranscriptChunk, len(chunks))
	now := time.Now()
	for i, chunk := range chunks {
		records[i] = TranscriptChunk{
			ID:           fmt.Sprintf("%s_%d", videoID, i),
			VideoID:      videoID,
			ChunkIndex:   i,
			Text:         chunk.Text,
			StartSeconds: chunk.Start,
			EndSeconds:   chunk.End,
			Embedding:    encodeVector(vectors[i]),
			CreatedAt:    now,
		}
	}

	if err := s.db.Create(&records).Error; err != nil {
		s.ui.Verbose("Persisting chunks for %s: %v\n", videoID, err)
		return false
	}

	s.ui.Verbose("Added %d chunks for video %s\n", len(records), videoID)
	return true
}

// fetchWithRetry fetches a transcript, retrying transient failures with
// randomized backoff up to the configured attempt count. Permanent failures
// stop immediately.
func (s *TranscriptStore) fetchWithRetry(ctx context.Context, videoID string) ([]Segment, error) {
	attempts := s.config.FetchRetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration((rand.Float64()*2 + 1) * float64(attempt+1) * float64(time.Second))
			s.ui.Verbose("Waiting %.1fs before retry %d for %s\n", delay.Seconds(), attempt+1, videoID)
			s.sleep(delay)
		}

		segments, err := s.fetcher.Fetch(ctx, videoID, s.config.Languages)
		if err == nil {
			return segments, nil
		}
		if IsPermanentFetchError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Search embeds the query and returns the topK most similar chunks,
// optionally scoped to one video. Confidence is 1 - cosine distance. It
// returns an empty result, never an error, when nothing matches or the
// store is unavailable.
func (s *TranscriptStore) Search(ctx context.Context, query, videoID string, topK int) []ChunkMatch {
	if topK <= 0 {
		topK = s.config.TopKResults
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		s.ui.Verbose("Embedding query: %v\n", err)
		return nil
	}
	queryVector := vectors[0]

	tx := s.db.WithContext(ctx)
	if videoID != "" {
		tx = tx.Where("video_id = ?", videoID)
	}

	var records []TranscriptChunk
	if err := tx.Find(&records).Error; err != nil {
		s.ui.Verbose("Loading chunks: %v\n", err)
		return nil
	}

	matches := make([]ChunkMatch, 0, len(records))
	for _, rec := range records {
		confidence := cosineSimilarity(queryVector, decodeVector(rec.Embedding))
		if confidence < s.config.MinConfidence {
			continue
		}
		matches = append(matches, ChunkMatch{
			VideoID:      rec.VideoID,
			ChunkIndex:   rec.ChunkIndex,
			Text:         rec.Text,
			StartSeconds: rec.StartSeconds,
			EndSeconds:   rec.EndSeconds,
			Confidence:   confidence,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Stats returns read-only store statistics
func (s *TranscriptStore) Stats() StoreStats {
	var count int64
	if err := s.db.Model(&TranscriptChunk{}).Count(&count).Error; err != nil {
		return StoreStats{
			CollectionName: s.config.CollectionName,
			EmbeddingModel: s.embedder.ModelName(),
			Note:           fmt.Sprintf("error: %v", err),
		}
	}
	return StoreStats{
		TotalChunks:    count,
		CollectionName: s.config.CollectionName,
		EmbeddingModel: s.embedder.ModelName(),
	}
}

// encodeVector serializes a float32 vector to a little-endian blob
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserializes a little-endian blob into a float32 vector
func decodeVector(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}

// cosineSimilarity computes the cosine of the angle between two vectors,
// which equals 1 - cosine distance.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
