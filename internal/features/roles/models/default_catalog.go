package models

import "github.com/disgoorg/snowflake/v2"

const DefaultCatalogVersion = "2025-07"

var defaultRoles = []RoleDefinition{
	{ID: 1366405807398326324, Name: "Whisker Initiate", Category: CategoryBadge, Milestone: 500},
	{ID: 1366405809717772308, Name: "Pawthfinder", Category: CategoryBadge, Milestone: 1000},
	{ID: 1366405811508744323, Name: "Claw Collector", Category: CategoryBadge, Milestone: 2000},
	{ID: 1366405813190525008, Name: "Yarnmaster", Category: CategoryBadge, Milestone: 5000},
	{ID: 1366405815149396018, Name: "Alley Alpha", Category: CategoryBadge, Milestone: 10000},
	{ID: 1366405817263460393, Name: "Shadow Stalker", Category: CategoryBadge, Milestone: 50000},
	{ID: 1366405819423395864, Name: "Furion Elite", Category: CategoryBadge, Milestone: 100000},
	{ID: 1366405821206102046, Name: "Mythic Pouncer", Category: CategoryBadge, Milestone: 500000},
	{ID: 1366405823080693860, Name: "Catcents Legend", Category: CategoryBadge, Milestone: 1000000},

	{ID: 1394315298550579240, Name: "Meowgaverse OG", Category: CategoryNFTTier, Threshold: 20},
	{ID: 1394315521922568326, Name: "Prime Pouncer", Category: CategoryNFTTier, Threshold: 10},
	{ID: 1394315707856060418, Name: "Big Whisker", Category: CategoryNFTTier, Threshold: 5},
	{ID: 1394315844116545637, Name: "Solo Purr", Category: CategoryNFTTier, Threshold: 1},

	{ID: 1372582503407157368, Name: "Test Catlist Role", Category: CategoryOther},
}

// Hierarchy order, highest first.
var defaultEligibility = []struct {
	id    snowflake.ID
	name  string
	color string
	tier  MintTier
}{
	{1360213933314674818, "Community Manager", "#FF0000", MintTierGTD},
	{1271757759787958282, "Purrfect Mod", "#FF4500", MintTierGTD},
	{1271065450054418564, "Meow Maven", "#FFA500", MintTierGTD},
	{1272820953172152351, "OG", "#FFD700", MintTierGTD},
	{1272821145519001620, "X Advocate", "#00FF00", MintTierGTD},
	{1271757404945649664, "Active Paw", "#00FA9A", MintTierGTD},
	{1366405819423395864, "Furion Elite", "#00CED1", MintTierGTD},
	{1366405821206102046, "Mythic Pouncer", "#1E90FF", MintTierGTD},
	{1366405823080693860, "Catcents Legend", "#0000FF", MintTierGTD},
	{1394315298550579240, "Meowgaverse OG", "#800080", MintTierGTD},
	{1394315521922568326, "Prime Pouncer", "#9932CC", MintTierGTD},
	{1394315707856060418, "Big Whisker", "#BA55D3", MintTierFCFS},
	{1394315844116545637, "Solo Purr", "#C71585", MintTierFCFS},
	{1272887925683785808, "Monad Veteran", "#FF6347", MintTierFCFS},
	{1271757159138463745, "Early Kitten", "#FF69B4", MintTierFCFS},
	{1273248297988919307, "Catlist", "#FF1493", MintTierFCFS},
	{1372582503407157368, "Test Catlist Role", "#DB7093", MintTierFCFS},
	{1272821525397114922, "Game Champion", "#DC143C", MintTierFCFS},
	{1272821417674805280, "Meow Artist", "#B22222", MintTierFCFS},
	{1272821342495838268, "Meow Maestro", "#8B0000", MintTierFCFS},
	{1366405807398326324, "Whisker Initiate", "#A52A2A", MintTierFCFS},
	{1366405809717772308, "Pawthfinder", "#CD5C5C", MintTierFCFS},
	{1366405811508744323, "Claw Collector", "#F08080", MintTierFCFS},
	{1366405813190525008, "Yarn Master", "#FA8072", MintTierFCFS},
	{1366405815149396018, "Alley Alpha", "#E9967A", MintTierFCFS},
	{1366405817263460393, "Shadow Stalker", "#FFA07A", MintTierFCFS},
}

// DefaultCatalog returns the production catalog. It panics if the built-in
// tables are inconsistent.
func DefaultCatalog() *Catalog {
	elig := make([]EligibilityRole, len(defaultEligibility))
	for i, e := range defaultEligibility {
		elig[i] = EligibilityRole{ID: e.id, Name: e.name, Color: e.color, Tier: e.tier, Rank: i}
	}
	c, err := NewCatalog(DefaultCatalogVersion, defaultRoles, elig)
	if err != nil {
		panic("roles: invalid default catalog: " + err.Error())
	}
	return c
}
