package pokeapi

// Response shapes, limited to the fields the client reads.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (r *namedResource) name() string {
	if r == nil {
		return ""
	}
	return r.Name
}

type listResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type pokemonResponse struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Height         int               `json:"height"`
	Weight         int               `json:"weight"`
	BaseExperience *int              `json:"base_experience"`
	Types          []typeSlot        `json:"types"`
	Stats          []statEntry       `json:"stats"`
	Abilities      []abilitySlot     `json:"abilities"`
	Sprites        sprites           `json:"sprites"`
	Species        namedResource     `json:"species"`
	Moves          []pokemonMoveSlot `json:"moves"`
}

type typeSlot struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type statEntry struct {
	BaseStat int           `json:"base_stat"`
	Stat     namedResource `json:"stat"`
}

type abilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  namedResource `json:"ability"`
}

type sprites struct {
	FrontDefault *string `json:"front_default"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault *string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

type pokemonMoveSlot struct {
	Move                namedResource        `json:"move"`
	VersionGroupDetails []versionGroupDetail `json:"version_group_details"`
}

type versionGroupDetail struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod namedResource `json:"move_learn_method"`
	VersionGroup    namedResource `json:"version_group"`
}

type typeResponse struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	DamageRelations damageRelations `json:"damage_relations"`
}

type damageRelations struct {
	DoubleDamageTo   []namedResource `json:"double_damage_to"`
	HalfDamageTo     []namedResource `json:"half_damage_to"`
	NoDamageTo       []namedResource `json:"no_damage_to"`
	DoubleDamageFrom []namedResource `json:"double_damage_from"`
	HalfDamageFrom   []namedResource `json:"half_damage_from"`
	NoDamageFrom     []namedResource `json:"no_damage_from"`
}

type speciesResponse struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	FlavorTextEntries []flavorText    `json:"flavor_text_entries"`
	Genera            []genus         `json:"genera"`
	Habitat           *namedResource  `json:"habitat"`
	CaptureRate       int             `json:"capture_rate"`
	BaseHappiness     *int            `json:"base_happiness"`
	GrowthRate        *namedResource  `json:"growth_rate"`
	EggGroups         []namedResource `json:"egg_groups"`
	EvolutionChain    *struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type flavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   namedResource `json:"language"`
}

type genus struct {
	Genus    string        `json:"genus"`
	Language namedResource `json:"language"`
}

type evolutionChainResponse struct {
	ID    int           `json:"id"`
	Chain chainLinkJSON `json:"chain"`
}

type chainLinkJSON struct {
	Species          namedResource         `json:"species"`
	EvolutionDetails []evolutionDetailJSON `json:"evolution_details"`
	EvolvesTo        []chainLinkJSON       `json:"evolves_to"`
}

type evolutionDetailJSON struct {
	Trigger               *namedResource `json:"trigger"`
	MinLevel              *int           `json:"min_level"`
	Item                  *namedResource `json:"item"`
	HeldItem              *namedResource `json:"held_item"`
	TimeOfDay             string         `json:"time_of_day"`
	Location              *namedResource `json:"location"`
	MinHappiness          *int           `json:"min_happiness"`
	MinBeauty             *int           `json:"min_beauty"`
	MinAffection          *int           `json:"min_affection"`
	KnownMoveType         *namedResource `json:"known_move_type"`
	PartySpecies          *namedResource `json:"party_species"`
	PartyType             *namedResource `json:"party_type"`
	TradeSpecies          *namedResource `json:"trade_species"`
	RelativePhysicalStats *int           `json:"relative_physical_stats"`
	NeedsOverworldRain    bool           `json:"needs_overworld_rain"`
	TurnUpsideDown        bool           `json:"turn_upside_down"`
}

type moveResponse struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Type          namedResource  `json:"type"`
	Power         *int           `json:"power"`
	PP            *int           `json:"pp"`
	Accuracy      *int           `json:"accuracy"`
	Priority      int            `json:"priority"`
	DamageClass   *namedResource `json:"damage_class"`
	EffectEntries []effectEntry  `json:"effect_entries"`
}

type effectEntry struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    namedResource `json:"language"`
}
