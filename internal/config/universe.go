package config

import "BistRadar/internal/model"

// DefaultUniverse returns the built-in BIST watch list used when the
// config file does not provide one.
func DefaultUniverse() []model.Symbol {
	return []model.Symbol{
		{Code: "THYAO", Name: "Türk Hava Yolları"},
		{Code: "GARAN", Name: "Garanti BBVA"},
		{Code: "AKBNK", Name: "Akbank"},
		{Code: "ISCTR", Name: "İş Bankası (C)"},
		{Code: "YKBNK", Name: "Yapı Kredi Bankası"},
		{Code: "EREGL", Name: "Ereğli Demir Çelik"},
		{Code: "KRDMD", Name: "Kardemir (D)"},
		{Code: "TUPRS", Name: "Tüpraş"},
		{Code: "PETKM", Name: "Petkim"},
		{Code: "SISE", Name: "Şişecam"},
		{Code: "KCHOL", Name: "Koç Holding"},
		{Code: "SAHOL", Name: "Sabancı Holding"},
		{Code: "ASELS", Name: "Aselsan"},
		{Code: "TCELL", Name: "Turkcell"},
		{Code: "TTKOM", Name: "Türk Telekom"},
		{Code: "BIMAS", Name: "BİM Mağazalar"},
		{Code: "MGROS", Name: "Migros"},
		{Code: "SOKM", Name: "Şok Marketler"},
		{Code: "ARCLK", Name: "Arçelik"},
		{Code: "VESTL", Name: "Vestel"},
		{Code: "TOASO", Name: "Tofaş Oto"},
		{Code: "FROTO", Name: "Ford Otosan"},
		{Code: "DOAS", Name: "Doğuş Otomotiv"},
		{Code: "PGSUS", Name: "Pegasus"},
		{Code: "TAVHL", Name: "TAV Havalimanları"},
		{Code: "EKGYO", Name: "Emlak Konut GYO"},
		{Code: "ENKAI", Name: "Enka İnşaat"},
		{Code: "KOZAL", Name: "Koza Altın"},
		{Code: "HEKTS", Name: "Hektaş"},
		{Code: "SASA", Name: "SASA Polyester"},
	}
}
