package domain

import "time"

// EnergyEmotion is the self-described emotional energy of a profile.
// The value set is closed; anything else is rejected at the store boundary.
type EnergyEmotion string

const (
	EmotionAlegre        EnergyEmotion = "alegre"
	EmotionCalma         EnergyEmotion = "calma"
	EmotionPasion        EnergyEmotion = "pasión"
	EmotionEsperanza     EnergyEmotion = "esperanza"
	EmotionEnergetica    EnergyEmotion = "energética"
	EmotionReflexiva     EnergyEmotion = "reflexiva"
	EmotionAventurera    EnergyEmotion = "aventurera"
	EmotionRomantica     EnergyEmotion = "romántica"
	EmotionOptimista     EnergyEmotion = "optimista"
	EmotionMisteriosa    EnergyEmotion = "misteriosa"
	EmotionAmigable      EnergyEmotion = "amigable"
	EmotionCreativa      EnergyEmotion = "creativa"
	EmotionIndependiente EnergyEmotion = "independiente"
	EmotionComprensiva   EnergyEmotion = "comprensiva"
	EmotionEntusiasta    EnergyEmotion = "entusiasta"
)

// EnergyEmotions lists every accepted value.
var EnergyEmotions = []EnergyEmotion{
	EmotionAlegre, EmotionCalma, EmotionPasion, EmotionEsperanza,
	EmotionEnergetica, EmotionReflexiva, EmotionAventurera, EmotionRomantica,
	EmotionOptimista, EmotionMisteriosa, EmotionAmigable, EmotionCreativa,
	EmotionIndependiente, EmotionComprensiva, EmotionEntusiasta,
}

func (e EnergyEmotion) Valid() bool {
	for _, v := range EnergyEmotions {
		if e == v {
			return true
		}
	}
	return false
}

// PurposeOfLife is the declared life purpose of a profile, again a closed set.
type PurposeOfLife string

const (
	PurposeTrueLove       PurposeOfLife = "Encontrar el amor verdadero"
	PurposeFamily         PurposeOfLife = "Construir una familia"
	PurposeFriendships    PurposeOfLife = "Crear amistades duraderas"
	PurposeSelfGrowth     PurposeOfLife = "Desarrollarme personalmente"
	PurposeFindPurpose    PurposeOfLife = "Encontrar mi propósito"
	PurposeTravel         PurposeOfLife = "Viajar y explorar"
	PurposeFinancial      PurposeOfLife = "Conseguir estabilidad financiera"
	PurposeCareer         PurposeOfLife = "Tener una carrera exitosa"
	PurposeAdventures     PurposeOfLife = "Tener aventuras emocionantes"
	PurposeCreate         PurposeOfLife = "Crear algo significativo"
	PurposeWorkLife       PurposeOfLife = "Encontrar equilibrio trabajo-vida"
	PurposeHappiness      PurposeOfLife = "Ser feliz y positivo"
	PurposeSoulmate       PurposeOfLife = "Encontrar mi media naranja"
	PurposeLikeMinded     PurposeOfLife = "Conectar con personas afines"
	PurposeUniqueMoments  PurposeOfLife = "Vivir experiencias únicas"
)

// PurposesOfLife lists every accepted value.
var PurposesOfLife = []PurposeOfLife{
	PurposeTrueLove, PurposeFamily, PurposeFriendships, PurposeSelfGrowth,
	PurposeFindPurpose, PurposeTravel, PurposeFinancial, PurposeCareer,
	PurposeAdventures, PurposeCreate, PurposeWorkLife, PurposeHappiness,
	PurposeSoulmate, PurposeLikeMinded, PurposeUniqueMoments,
}

func (p PurposeOfLife) Valid() bool {
	for _, v := range PurposesOfLife {
		if p == v {
			return true
		}
	}
	return false
}

// UserStatus is the presence status shown to other users.
type UserStatus string

const (
	StatusAvailable UserStatus = "available"
	StatusAway      UserStatus = "away"
	StatusInDate    UserStatus = "in_date"
	StatusOffline   UserStatus = "offline"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAway, StatusInDate, StatusOffline:
		return true
	}
	return false
}

const (
	MinAge = 18
	MaxAge = 100
)

// OnlineWindow is how recent last_seen must be for a profile to count as online.
const OnlineWindow = 10 * time.Minute

type Profile struct {
	ID            string        `json:"id" db:"id"`
	DisplayName   string        `json:"display_name" db:"display_name"`
	Age           int           `json:"age" db:"age"`
	City          string        `json:"city" db:"city"`
	Country       string        `json:"country" db:"country"`
	AvatarURL     *string       `json:"avatar_url" db:"avatar_url"`
	EnergyEmotion EnergyEmotion `json:"energy_emotion" db:"energy_emotion"`
	PurposeOfLife PurposeOfLife `json:"purpose_of_life" db:"purpose_of_life"`
	WhatSeeking   string        `json:"what_seeking" db:"what_seeking"`
	WhatInspires  string        `json:"what_inspires" db:"what_inspires"`
	IsVerified    bool          `json:"is_verified" db:"is_verified"`
	IsPremium     bool          `json:"is_premium" db:"is_premium"`
	BeatsBalance  int           `json:"beats_balance" db:"beats_balance"`
	Status        UserStatus    `json:"status" db:"status"`
	LastSeen      time.Time     `json:"last_seen" db:"last_seen"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsOnlineAt reports whether the profile counts as online at the given time.
func (p *Profile) IsOnlineAt(now time.Time) bool {
	return p.Status != StatusOffline && now.Sub(p.LastSeen) <= OnlineWindow
}

// Validate checks the invariants enforced at the store boundary.
func (p *Profile) Validate() error {
	if p.DisplayName == "" {
		return &ValidationError{Field: "display_name", Constraint: "must not be empty"}
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return &ValidationError{Field: "age", Constraint: "must be between 18 and 100"}
	}
	if !p.EnergyEmotion.Valid() {
		return &ValidationError{Field: "energy_emotion", Constraint: "unknown value"}
	}
	if !p.PurposeOfLife.Valid() {
		return &ValidationError{Field: "purpose_of_life", Constraint: "unknown value"}
	}
	if !p.Status.Valid() {
		return &ValidationError{Field: "status", Constraint: "unknown value"}
	}
	return nil
}
