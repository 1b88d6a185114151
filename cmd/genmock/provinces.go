package main

type province struct {
	plate     int
	name      string
	lat, lon  float64
	elevation float64 // metres, approximate
}

// provinces lists the 81 provinces of Turkey in plate-code order with the
// approximate position of each provincial capital.
var provinces = []province{
	{1, "Adana", 37.0000, 35.3213, 23},
	{2, "Adıyaman", 37.7648, 38.2786, 669},
	{3, "Afyonkarahisar", 38.7507, 30.5567, 1034},
	{4, "Ağrı", 39.7191, 43.0503, 1640},
	{5, "Amasya", 40.6499, 35.8353, 412},
	{6, "Ankara", 39.9334, 32.8597, 938},
	{7, "Antalya", 36.8969, 30.7133, 39},
	{8, "Artvin", 41.1828, 41.8183, 628},
	{9, "Aydın", 37.8560, 27.8416, 65},
	{10, "Balıkesir", 39.6484, 27.8826, 139},
	{11, "Bilecik", 40.1451, 29.9799, 526},
	{12, "Bingöl", 38.8855, 40.4983, 1177},
	{13, "Bitlis", 38.4006, 42.1095, 1573},
	{14, "Bolu", 40.7395, 31.6116, 742},
	{15, "Burdur", 37.7203, 30.2908, 967},
	{16, "Bursa", 40.1885, 29.0610, 100},
	{17, "Çanakkale", 40.1553, 26.4142, 6},
	{18, "Çankırı", 40.6013, 33.6134, 751},
	{19, "Çorum", 40.5506, 34.9556, 776},
	{20, "Denizli", 37.7765, 29.0864, 425},
	{21, "Diyarbakır", 37.9144, 40.2306, 674},
	{22, "Edirne", 41.6818, 26.5623, 51},
	{23, "Elazığ", 38.6810, 39.2264, 1067},
	{24, "Erzincan", 39.7500, 39.5000, 1218},
	{25, "Erzurum", 39.9000, 41.2700, 1758},
	{26, "Eskişehir", 39.7767, 30.5206, 792},
	{27, "Gaziantep", 37.0662, 37.3833, 850},
	{28, "Giresun", 40.9128, 38.3895, 37},
	{29, "Gümüşhane", 40.4386, 39.5086, 1219},
	{30, "Hakkari", 37.5833, 43.7333, 1728},
	{31, "Hatay", 36.4018, 36.3498, 85},
	{32, "Isparta", 37.7648, 30.5566, 1035},
	{33, "Mersin", 36.8000, 34.6333, 5},
	{34, "İstanbul", 41.0082, 28.9784, 39},
	{35, "İzmir", 38.4237, 27.1428, 25},
	{36, "Kars", 40.6167, 43.1000, 1775},
	{37, "Kastamonu", 41.3887, 33.7827, 800},
	{38, "Kayseri", 38.7312, 35.4787, 1054},
	{39, "Kırklareli", 41.7333, 27.2167, 232},
	{40, "Kırşehir", 39.1425, 34.1709, 985},
	{41, "Kocaeli", 40.8533, 29.8815, 76},
	{42, "Konya", 37.8667, 32.4833, 1016},
	{43, "Kütahya", 39.4167, 29.9833, 969},
	{44, "Malatya", 38.3552, 38.3095, 964},
	{45, "Manisa", 38.6191, 27.4289, 71},
	{46, "Kahramanmaraş", 37.5858, 36.9371, 572},
	{47, "Mardin", 37.3212, 40.7245, 1083},
	{48, "Muğla", 37.2153, 28.3636, 646},
	{49, "Muş", 38.9462, 41.7539, 1320},
	{50, "Nevşehir", 38.6939, 34.6857, 1260},
	{51, "Niğde", 37.9667, 34.6833, 1208},
	{52, "Ordu", 40.9839, 37.8764, 5},
	{53, "Rize", 41.0201, 40.5234, 9},
	{54, "Sakarya", 40.6940, 30.4358, 31},
	{55, "Samsun", 41.2928, 36.3313, 4},
	{56, "Siirt", 37.9333, 41.9500, 896},
	{57, "Sinop", 42.0231, 35.1531, 32},
	{58, "Sivas", 39.7477, 37.0179, 1285},
	{59, "Tekirdağ", 40.9833, 27.5167, 4},
	{60, "Tokat", 40.3167, 36.5500, 623},
	{61, "Trabzon", 41.0015, 39.7178, 30},
	{62, "Tunceli", 39.1079, 39.5401, 981},
	{63, "Şanlıurfa", 37.1591, 38.7969, 518},
	{64, "Uşak", 38.6823, 29.4082, 919},
	{65, "Van", 38.4891, 43.4089, 1725},
	{66, "Yozgat", 39.8181, 34.8147, 1301},
	{67, "Zonguldak", 41.4564, 31.7987, 135},
	{68, "Aksaray", 38.3687, 34.0370, 980},
	{69, "Bayburt", 40.2552, 40.2249, 1550},
	{70, "Karaman", 37.1759, 33.2287, 1039},
	{71, "Kırıkkale", 39.8468, 33.5153, 747},
	{72, "Batman", 37.8812, 41.1351, 540},
	{73, "Şırnak", 37.4187, 42.4918, 1350},
	{74, "Bartın", 41.5811, 32.4610, 25},
	{75, "Ardahan", 41.1105, 42.7022, 1829},
	{76, "Iğdır", 39.8880, 44.0048, 858},
	{77, "Yalova", 40.6500, 29.2667, 4},
	{78, "Karabük", 41.2061, 32.6204, 278},
	{79, "Kilis", 36.7184, 37.1212, 638},
	{80, "Osmaniye", 37.0742, 36.2478, 118},
	{81, "Düzce", 40.8438, 31.1565, 146},
}
