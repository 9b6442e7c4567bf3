package domain

// Category is a canonical event-type label produced by NormalizeCategory.
type Category string

// Canonical categories. CategoryOther is the catch-all for strings that look
// like a plausible event but match no specific rule; CategoryUnclassifiable
// marks entry errors and residue, which are excluded from all aggregation.
const (
	CategoryAvalanche          Category = "Avalanche"
	CategoryBlizzard           Category = "Blizzard"
	CategoryCoastalErosion     Category = "Coastal Erosion"
	CategoryCoastalStorm       Category = "Coastal Storm"
	CategoryCold               Category = "Cold"
	CategoryDamFailure         Category = "Dam Failure"
	CategoryDrought            Category = "Drought"
	CategoryDrowning           Category = "Drowning"
	CategoryFire               Category = "Fire"
	CategoryFlood              Category = "Flood"
	CategoryFog                Category = "Fog"
	CategoryFrost              Category = "Frost"
	CategoryFunnelCloud        Category = "Funnel Cloud"
	CategoryHail               Category = "Hail"
	CategoryHeat               Category = "Heat"
	CategoryHeavySeas          Category = "Heavy Seas"
	CategoryHighSurf           Category = "High Surf"
	CategoryHighWind           Category = "High Wind"
	CategoryHurricane          Category = "Hurricane"
	CategoryLakeEffectSnow     Category = "Lake Effect Snow"
	CategoryLandslide          Category = "Landslide"
	CategoryLightning          Category = "Lightning"
	CategoryMarineAccident     Category = "Marine Accident"
	CategoryMicroburst         Category = "Microburst"
	CategoryRain               Category = "Rain"
	CategoryRipCurrent         Category = "Rip Current"
	CategorySleet              Category = "Sleet"
	CategorySnow               Category = "Snow"
	CategoryStormSurge         Category = "Storm Surge"
	CategoryThunderstorm       Category = "Thunderstorm"
	CategoryTide               Category = "Tide"
	CategoryTornado            Category = "Tornado"
	CategoryTropicalDepression Category = "Tropical Depression"
	CategoryTropicalStorm      Category = "Tropical Storm"
	CategoryTsunami            Category = "Tsunami"
	CategoryVolcanicAsh        Category = "Volcanic Ash"
	CategoryWaterspout         Category = "Waterspout"
	CategoryWind               Category = "Wind"

	CategoryOther          Category = "Other"
	CategoryUnclassifiable Category = "Unclassifiable"
)
