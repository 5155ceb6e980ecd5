package domain

var spiritRoots = []string{"变异雷灵根", "九天玄冰体", "荒古圣体", "五行杂灵根", "混沌道胎", "极品火灵根"}

var realms = []string{"大乘期圆满", "陆地神仙", "化神初期", "金丹大圆满", "渡劫期半仙"}

var elements = []string{"雷霆万钧", "水泽国度", "焚天烈火", "厚土载物", "庚金杀伐"}

var artifacts = []string{"青竹蜂云剑", "玄天斩灵剑", "造化玉碟残片", "掌天瓶", "山河社稷图"}

var poems = []string{
	"大鹏一日同风起，扶摇直上九万里。\n假令风歇时下来，犹能簸却沧溟水。",
	"长风破浪会有时，直挂云帆济沧海。\n欲渡黄河冰塞川，将登太行雪满山。",
	"青山遮不住，毕竟东流去。\n莫道桑榆晚，为霞尚满天。",
	"会当凌绝顶，一览众山小。\n荡胸生曾云，决眦入归鸟。",
}

const analysisTemplate = "道友名为%s，生于%s。观你骨骼清奇，虽生于末法时代，却不仅有%s护体，更有%s之潜力。" +
	"大道三千，你独占其一，只要坚守道心，必能证道长生。切记，%d年或有情劫，需以此%s化解。"
