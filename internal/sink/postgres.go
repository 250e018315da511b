package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stitts-dev/matchsim/internal/matchstate"
)

// matchResultRow is the GORM model backing the result table, grounded on
// the teacher's pattern of a thin row struct plus JSON columns for
// nested, rarely-queried payloads (gorm.io/datatypes.JSON) rather than a
// fully normalized schema.
type matchResultRow struct {
	MatchID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	FinishedAt time.Time
	ScoreHome  int
	ScoreAway  int
	HomeStats  datatypes.JSON
	AwayStats  datatypes.JSON
	Events     datatypes.JSON
}

func (matchResultRow) TableName() string { return "match_results" }

// PostgresSink is the GORM-backed reference Sink implementation.
type PostgresSink struct {
	db *gorm.DB
}

func NewPostgresSink(db *gorm.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// AutoMigrate creates/updates the match_results table; called once at
// process start, mirroring the teacher's migration-on-boot pattern.
func (s *PostgresSink) AutoMigrate() error {
	return s.db.AutoMigrate(&matchResultRow{})
}

func (s *PostgresSink) Store(ctx context.Context, result Result) error {
	homeStats, err := json.Marshal(result.HomeStats)
	if err != nil {
		return fmt.Errorf("marshal home stats: %w", err)
	}
	awayStats, err := json.Marshal(result.AwayStats)
	if err != nil {
		return fmt.Errorf("marshal away stats: %w", err)
	}
	events, err := json.Marshal(result.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	row := matchResultRow{
		MatchID:    result.MatchID,
		FinishedAt: result.FinishedAt,
		ScoreHome:  result.Score.Home,
		ScoreAway:  result.Score.Away,
		HomeStats:  datatypes.JSON(homeStats),
		AwayStats:  datatypes.JSON(awayStats),
		Events:     datatypes.JSON(events),
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *PostgresSink) Fetch(ctx context.Context, matchID uuid.UUID) (Result, error) {
	var row matchResultRow
	if err := s.db.WithContext(ctx).First(&row, "match_id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, fmt.Errorf("no stored result for match %s", matchID)
		}
		return Result{}, err
	}

	var homeStats, awayStats matchstate.Stats
	var events []matchstate.Event
	if err := json.Unmarshal(row.HomeStats, &homeStats); err != nil {
		return Result{}, fmt.Errorf("unmarshal home stats: %w", err)
	}
	if err := json.Unmarshal(row.AwayStats, &awayStats); err != nil {
		return Result{}, fmt.Errorf("unmarshal away stats: %w", err)
	}
	if err := json.Unmarshal(row.Events, &events); err != nil {
		return Result{}, fmt.Errorf("unmarshal events: %w", err)
	}

	return Result{
		MatchID:    row.MatchID,
		FinishedAt: row.FinishedAt,
		Score:      matchstate.Score{Home: row.ScoreHome, Away: row.ScoreAway},
		HomeStats:  homeStats,
		AwayStats:  awayStats,
		Events:     events,
	}, nil
}
