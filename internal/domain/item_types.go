package domain

import "strings"

type ItemType string

func (t ItemType) String() string {
	return string(t)
}

const (
	ItemTypeNone            ItemType = "none"
	ItemTypeCurrency        ItemType = "currency"
	ItemTypeUniqueWeapon    ItemType = "unique_weapon"
	ItemTypeUniqueArmour    ItemType = "unique_armour"
	ItemTypeUniqueAccessory ItemType = "unique_accessory"
	ItemTypeUniqueJewel     ItemType = "unique_jewel"
	ItemTypeUniqueFlask     ItemType = "unique_flask"
	ItemTypeUniqueMap       ItemType = "unique_map"
	ItemTypeUniqueRelic     ItemType = "unique_relic"
	ItemTypeUnique          ItemType = "unique" // Unique category known only from the catalog listing
	ItemTypeFragment        ItemType = "fragment"
	ItemTypeDivinationCard  ItemType = "divination_card"
	ItemTypeEssence         ItemType = "essence"
	ItemTypeFossil          ItemType = "fossil"
	ItemTypeResonator       ItemType = "resonator"
	ItemTypeScarab          ItemType = "scarab"
	ItemTypeOil             ItemType = "oil"
	ItemTypeIncubator       ItemType = "incubator"
	ItemTypeDeliriumOrb     ItemType = "delirium_orb"
	ItemTypeCatalyst        ItemType = "catalyst"
	ItemTypeRune            ItemType = "rune"
	ItemTypeSkillGem        ItemType = "skill_gem"
)

var categoryItemTypes = map[string]ItemType{
	"currency":        ItemTypeCurrency,
	"weapon":          ItemTypeUniqueWeapon,
	"armour":          ItemTypeUniqueArmour,
	"armor":           ItemTypeUniqueArmour,
	"accessory":       ItemTypeUniqueAccessory,
	"amulet":          ItemTypeUniqueAccessory,
	"ring":            ItemTypeUniqueAccessory,
	"belt":            ItemTypeUniqueAccessory,
	"jewel":           ItemTypeUniqueJewel,
	"flask":           ItemTypeUniqueFlask,
	"map":             ItemTypeUniqueMap,
	"sanctum":         ItemTypeUniqueRelic,
	"fragment":        ItemTypeFragment,
	"fragments":       ItemTypeFragment,
	"divinationcard":  ItemTypeDivinationCard,
	"essence":         ItemTypeEssence,
	"essences":        ItemTypeEssence,
	"fossil":          ItemTypeFossil,
	"resonator":       ItemTypeResonator,
	"scarab":          ItemTypeScarab,
	"oil":             ItemTypeOil,
	"incubator":       ItemTypeIncubator,
	"deliriumorb":     ItemTypeDeliriumOrb,
	"deliriuminstill": ItemTypeDeliriumOrb,
	"catalyst":        ItemTypeCatalyst,
	"breachcatalyst":  ItemTypeCatalyst,
	"runes":           ItemTypeRune,
	"ritual":          ItemTypeCurrency,
	"expedition":      ItemTypeCurrency,
	"ultimatum":       ItemTypeCurrency,
	"vaultkeys":       ItemTypeCurrency,
	"skillgem":        ItemTypeSkillGem,
}

// ItemTypeFromCategory maps a category API id to its item type, case-insensitively.
// Unknown ids map to ItemTypeNone.
func ItemTypeFromCategory(categoryAPIID string) ItemType {
	if categoryAPIID == "" {
		return ItemTypeNone
	}
	if t, ok := categoryItemTypes[strings.ToLower(categoryAPIID)]; ok {
		return t
	}
	return ItemTypeNone
}

func (t ItemType) IsUnique() bool {
	switch t {
	case ItemTypeUniqueWeapon,
		ItemTypeUniqueArmour,
		ItemTypeUniqueAccessory,
		ItemTypeUniqueJewel,
		ItemTypeUniqueFlask,
		ItemTypeUniqueMap,
		ItemTypeUniqueRelic,
		ItemTypeUnique:
		return true
	default:
		return false
	}
}

func (t ItemType) IsCurrency() bool {
	switch t {
	case ItemTypeCurrency,
		ItemTypeFragment,
		ItemTypeEssence,
		ItemTypeFossil,
		ItemTypeResonator,
		ItemTypeScarab,
		ItemTypeOil,
		ItemTypeIncubator,
		ItemTypeDeliriumOrb,
		ItemTypeCatalyst,
		ItemTypeRune:
		return true
	default:
		return false
	}
}
