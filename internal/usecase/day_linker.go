package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trip-linker/internal/domain"
	"go.uber.org/zap"
)

// DayLinker вставляет перемещения между соседними активностями дня
type DayLinker struct {
	segments *SegmentBuilder
	logger   *zap.Logger
}

func NewDayLinker(segments *SegmentBuilder, logger *zap.Logger) *DayLinker {
	return &DayLinker{segments: segments, logger: logger}
}

// LinkDay заменяет day.Activities расширенным списком.
// Ранее вставленные transportation удаляются и строятся заново.
// Элементы других типов остаются на месте и разрывают связывание.
func (l *DayLinker) LinkDay(ctx context.Context, cache *PlaceIDCache, day *domain.Day, city string, report *domain.LinkReport) {
	items := lo.Reject(day.Activities, func(item domain.DayItem, _ int) bool {
		return item.Type == domain.ItemTypeTransportation
	})

	linked := make([]domain.DayItem, 0, len(items)*2)
	for i := range items {
		linked = append(linked, items[i])
		if i == len(items)-1 {
			break
		}

		cur, next := &items[i], &items[i+1]
		if !cur.IsActivity() || !next.IsActivity() {
			report.BarrierSkips++
			continue
		}
		if ctx.Err() != nil {
			continue
		}

		report.PairsConsidered++
		segments := l.segments.Build(ctx, cache, cur, next, city, report)
		if len(segments) == 0 {
			report.PairsWithoutRoute++
			continue
		}

		report.PairsLinked++
		report.SegmentsEmitted += len(segments)
		linked = append(linked, segments...)
	}

	l.logger.Debug("Day linked",
		zap.Int("day_index", day.DayIndex),
		zap.Int("items_before", len(day.Activities)),
		zap.Int("items_after", len(linked)))

	day.Activities = linked
}
