package models

type CubeColor string

const (
	CubeRed    CubeColor = "red"
	CubeBlue   CubeColor = "blue"
	CubeGreen  CubeColor = "green"
	CubeYellow CubeColor = "yellow"
	CubeBlack  CubeColor = "black"
)

func (c CubeColor) Valid() bool {
	switch c {
	case CubeRed, CubeBlue, CubeGreen, CubeYellow, CubeBlack:
		return true
	}
	return false
}

type MapName string

const (
	MapTharsis          MapName = "THARSIS"
	MapHellas           MapName = "HELLAS"
	MapElysium          MapName = "ELYSIUM"
	MapTerraCimmeria    MapName = "TERRA CIMERIA"
	MapVastitasBorealis MapName = "VASTITAS BOREALIS"
	MapUtopiaPlanitia   MapName = "UTOPIA PLANITIA"
)

func (m MapName) Valid() bool {
	switch m {
	case MapTharsis, MapHellas, MapElysium, MapTerraCimmeria, MapVastitasBorealis, MapUtopiaPlanitia:
		return true
	}
	return false
}
