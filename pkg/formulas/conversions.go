package formulas

// Weight.
func KgToLb(kg float64) float64    { return kg * 2.20462 }
func LbToKg(lb float64) float64    { return lb / 2.20462 }
func KgToStone(kg float64) float64 { return kg * 0.157473 }

// Length.
func CmToIn(cm float64) float64 { return cm / 2.54 }
func InToCm(in float64) float64 { return in * 2.54 }

// FtInToCm converts feet and inches to centimetres.
func FtInToCm(feet, inches float64) float64 { return (feet*12 + inches) * 2.54 }

// Temperature.
func CToF(c float64) float64 { return c*9/5 + 32 }
func FToC(f float64) float64 { return (f - 32) * 5 / 9 }

// Laboratory values, conventional US units to SI.
func CreatinineMgdlToUmol(v float64) float64  { return v * 88.4 }
func CreatinineUmolToMgdl(v float64) float64  { return v / 88.4 }
func BilirubinMgdlToUmol(v float64) float64   { return v * 17.1 }
func BilirubinUmolToMgdl(v float64) float64   { return v / 17.1 }
func GlucoseMgdlToMmol(v float64) float64     { return v / 18.0182 }
func GlucoseMmolToMgdl(v float64) float64     { return v * 18.0182 }
func CholesterolMgdlToMmol(v float64) float64 { return v / 38.67 }
func CholesterolMmolToMgdl(v float64) float64 { return v * 38.67 }
func BUNMgdlToMmol(v float64) float64         { return v / 2.8 }
func BUNMmolToMgdl(v float64) float64         { return v * 2.8 }
