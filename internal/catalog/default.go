package catalog

var defaultDrops = []Drop{
	{ID: "coins", Name: "Coins", Min: 500, Max: 727, Icon: "coins_250.png"},
	{ID: "bones", Name: "Bones", Min: 1, Max: 5, Icon: "bones.png"},
	{ID: "big_bones", Name: "Big bones", Min: 1, Max: 5, Icon: "big_bones.png"},
	{ID: "grimy_tarromin", Name: "Grimy tarromin", Min: 1, Max: 3, Icon: "grimy_tarromin.png"},
	{ID: "grimy_guam", Name: "Grimy guam", Min: 1, Max: 3, Icon: "grimy_guam.png"},
	{ID: "oak_logs", Name: "Oak logs", Min: 1, Max: 5, Icon: "oak_logs.png"},
	{ID: "battlestaff", Name: "Battlestaff", Min: 1, Max: 1, Icon: "battlestaff.png"},
	{ID: "gold_ring", Name: "Gold ring", Min: 1, Max: 2, Icon: "gold_ring.png"},
	{ID: "leather_boots", Name: "Leather boots", Min: 1, Max: 2, Icon: "leather_boots.png"},
	{ID: "gnomeball", Name: "Gnomeball", Min: 1, Max: 1, Icon: "gnomeball.png"},
	{ID: "silvery_feather", Name: "Silvery feather", Min: 1, Max: 1, Icon: "silvery_feather.png"},
}
