package guidance

import (
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"github.com/spf13/viper"
)

type Config struct {
	OffRouteThreshold float64 `validate:"gt=0"`         // meter
	ArrivalThreshold  float64 `validate:"gt=0"`         // meter
	SegmentEndEpsilon float64 `validate:"gte=0,lt=1"` // fraction of the segment

	FarTierDistance      float64 `validate:"gtfield=NearTierDistance"`     // meter
	NearTierDistance     float64 `validate:"gtfield=ImminentTierDistance"` // meter
	ImminentTierDistance float64 `validate:"gte=0"`                        // meter
	AnnounceStraight     bool
	Locale               string `validate:"oneof=en id"` // announcement text language
}

func DefaultConfig() Config {
	return Config{
		OffRouteThreshold:    50.0,
		ArrivalThreshold:     25.0,
		SegmentEndEpsilon:    0.001,
		FarTierDistance:      500.0,
		NearTierDistance:     100.0,
		ImminentTierDistance: 10.0,
		AnnounceStraight:     true,
		Locale:               string(datastructure.LOCALE_EN),
	}
}

// NewConfigFromViper. DefaultConfig overridden by viper keys.
func NewConfigFromViper() Config {
	def := DefaultConfig()
	viper.SetDefault("OFF_ROUTE_THRESHOLD_METERS", def.OffRouteThreshold)
	viper.SetDefault("ARRIVAL_THRESHOLD_METERS", def.ArrivalThreshold)
	viper.SetDefault("SEGMENT_END_EPSILON", def.SegmentEndEpsilon)
	viper.SetDefault("FAR_TIER_METERS", def.FarTierDistance)
	viper.SetDefault("NEAR_TIER_METERS", def.NearTierDistance)
	viper.SetDefault("IMMINENT_TIER_METERS", def.ImminentTierDistance)
	viper.SetDefault("ANNOUNCE_STRAIGHT", def.AnnounceStraight)
	viper.SetDefault("ANNOUNCEMENT_LOCALE", def.Locale)

	return Config{
		OffRouteThreshold:    viper.GetFloat64("OFF_ROUTE_THRESHOLD_METERS"),
		ArrivalThreshold:     viper.GetFloat64("ARRIVAL_THRESHOLD_METERS"),
		SegmentEndEpsilon:    viper.GetFloat64("SEGMENT_END_EPSILON"),
		FarTierDistance:      viper.GetFloat64("FAR_TIER_METERS"),
		NearTierDistance:     viper.GetFloat64("NEAR_TIER_METERS"),
		ImminentTierDistance: viper.GetFloat64("IMMINENT_TIER_METERS"),
		AnnounceStraight:     viper.GetBool("ANNOUNCE_STRAIGHT"),
		Locale:               viper.GetString("ANNOUNCEMENT_LOCALE"),
	}
}

// Validate. thresholds must be positive, the tiers strictly nested (imminent < near < far) and the locale known.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "invalid guidance config")
	}
	return nil
}
