package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/trip-linker/internal/domain"
)

// FareRules - параметры расчёта стоимости и заметок
type FareRules struct {
	CycleBaseFare float64
	CycleUnitFare float64
	CycleBlock    time.Duration
	LongWalk      time.Duration
}

func DefaultFareRules() FareRules {
	return FareRules{
		CycleBaseFare: 1.5,
		CycleUnitFare: 1.0,
		CycleBlock:    15 * time.Minute,
		LongWalk:      30 * time.Minute,
	}
}

// OptionNormalizer превращает ответ провайдера в TransportOption
type OptionNormalizer struct {
	rules FareRules
}

func NewOptionNormalizer(rules FareRules) *OptionNormalizer {
	if rules.CycleBlock <= 0 {
		rules.CycleBlock = 15 * time.Minute
	}
	return &OptionNormalizer{rules: rules}
}

// Normalize возвращает вариант и false, если ответ не содержит маршрута
func (n *OptionNormalizer) Normalize(mode domain.TransportMode, route *domain.RawRoute) (domain.TransportOption, bool) {
	if route == nil {
		return domain.TransportOption{}, false
	}

	switch mode {
	case domain.ModeTransit:
		return n.transit(route)
	case domain.ModeWalk, domain.ModeCycle, domain.ModeDrive:
		return n.path(mode, route)
	default:
		return domain.TransportOption{}, false
	}
}

// CycleFare - тариф велопроката: базовая цена за первый блок,
// затем CycleUnitFare за каждый начатый блок
func (n *OptionNormalizer) CycleFare(durationSeconds int) float64 {
	block := int(n.rules.CycleBlock.Seconds())
	extra := durationSeconds - block
	units := 0
	if extra > 0 {
		units = (extra + block - 1) / block
	}
	return roundFare(n.rules.CycleBaseFare + float64(units)*n.rules.CycleUnitFare)
}

func (n *OptionNormalizer) transit(route *domain.RawRoute) (domain.TransportOption, bool) {
	if len(route.Transits) == 0 {
		return domain.TransportOption{}, false
	}

	plan := route.Transits[0]
	if plan.Cost.Duration.Negative() || plan.Distance.Negative() {
		return domain.TransportOption{}, false
	}
	duration := plan.Cost.Duration.Int()
	distance := plan.Distance.Int()
	if duration <= 0 && distance <= 0 {
		return domain.TransportOption{}, false
	}

	return domain.TransportOption{
		Mode:            domain.ModeTransit,
		DurationSeconds: duration,
		DistanceMeters:  distance,
		Cost:            plan.Cost.TransitFee.Float(),
		Description:     narrateTransit(plan),
		Notes:           withIcon(domain.ModeTransit, "Public transit route"),
	}, true
}

func (n *OptionNormalizer) path(mode domain.TransportMode, route *domain.RawRoute) (domain.TransportOption, bool) {
	if len(route.Paths) == 0 {
		return domain.TransportOption{}, false
	}

	p := route.Paths[0]
	duration := pathDuration(mode, p)
	distance := p.Distance.Int()
	if duration <= 0 || distance <= 0 {
		return domain.TransportOption{}, false
	}

	opt := domain.TransportOption{
		Mode:            mode,
		DurationSeconds: duration,
		DistanceMeters:  distance,
	}
	span := fmt.Sprintf("%s, %s", formatDuration(duration), formatDistance(distance))

	switch mode {
	case domain.ModeWalk:
		opt.Description = fmt.Sprintf("Walk (%s)", span)
		if time.Duration(duration)*time.Second > n.rules.LongWalk {
			opt.Notes = withIcon(mode, "Long walk, consider another option")
		} else {
			opt.Notes = withIcon(mode, "Comfortable walking distance, wear comfortable shoes")
		}
	case domain.ModeCycle:
		opt.Cost = n.CycleFare(duration)
		opt.Description = fmt.Sprintf("Shared bike (%s)", span)
		opt.Notes = withIcon(mode, fmt.Sprintf("Bike share fare %.1f", opt.Cost))
	case domain.ModeDrive:
		opt.Cost = p.Cost.TaxiFee.Float()
		opt.Description = fmt.Sprintf("Drive (%s)", span)
		if opt.Cost > 0 {
			opt.Notes = withIcon(mode, fmt.Sprintf("Taxi fare about %.1f", opt.Cost))
		} else {
			opt.Notes = withIcon(mode, "Self-drive")
		}
	}

	return opt, true
}

// pathDuration: велосипедный ответ несёт duration в самом пути,
// пеший и автомобильный - в cost
func pathDuration(mode domain.TransportMode, p domain.RoutePath) int {
	primary, secondary := p.Cost.Duration, p.Duration
	if mode == domain.ModeCycle {
		primary, secondary = secondary, primary
	}
	if d := primary.Int(); d > 0 {
		return d
	}
	return secondary.Int()
}

// narrateTransit описывает плечи первого варианта: сначала пешая часть
// сегмента, затем линия транспорта. Такси не описывается.
func narrateTransit(plan domain.TransitPlan) string {
	var legs []string
	for _, seg := range plan.Segments {
		if seg.Walking != nil {
			if d := seg.Walking.Distance.Int(); d > 0 {
				legs = append(legs, fmt.Sprintf("Walk %d m", d))
			}
		}
		if seg.Bus != nil && len(seg.Bus.Buslines) > 0 {
			line := seg.Bus.Buslines[0]
			if line.Name != "" && line.DepartureStop.Name != "" && line.ArrivalStop.Name != "" {
				legs = append(legs, fmt.Sprintf("Take %s from %s to %s",
					line.Name, line.DepartureStop.Name, line.ArrivalStop.Name))
			}
		}
	}
	if len(legs) == 0 {
		return "Public transit"
	}
	return strings.Join(legs, " → ")
}

func withIcon(mode domain.TransportMode, note string) string {
	return mode.Icon() + " " + note
}

func roundFare(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatDuration(seconds int) string {
	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d h", minutes/60)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}

func formatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}
