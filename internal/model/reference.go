package model

// 静态参考数据：下拉框选项目录
// 与前端提交表单使用同一份目录，避免两端漂移

// Makes 支持的品牌
var Makes = []string{
	"Toyota", "Volkswagen", "Ford", "BMW", "Mercedes-Benz", "Audi", "Honda",
	"Nissan", "Hyundai", "Kia", "Mazda", "Suzuki", "Renault", "Chevrolet",
	"Jeep", "Land Rover", "Porsche", "Volvo", "Isuzu", "Mitsubishi", "Other",
}

// BodyTypes 车身类型
var BodyTypes = []string{
	"Sedan", "Hatchback", "SUV", "Bakkie", "Coupe", "Convertible",
	"Station Wagon", "Van", "Crossover",
}

// Provinces 南非 9 个省份
var Provinces = []string{
	"Gauteng", "Western Cape", "KwaZulu-Natal", "Eastern Cape", "Free State",
	"Limpopo", "Mpumalanga", "North West", "Northern Cape",
}

// Transmissions 变速箱选项
var Transmissions = []string{
	TransmissionManual, TransmissionAutomatic, TransmissionSemiAuto,
}

// FuelTypes 燃料类型选项
var FuelTypes = []string{
	FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric,
}

// SellerTypes 卖家类型选项
var SellerTypes = []string{
	SellerTypePrivate, SellerTypeDealer,
}

// Features 车辆配置目录
var Features = []string{
	"Air Conditioning", "Power Steering", "Electric Windows", "Central Locking",
	"ABS Brakes", "Airbags", "Bluetooth", "USB Port", "Cruise Control",
	"Sunroof", "Leather Seats", "Heated Seats", "Parking Sensors", "Reverse Camera",
	"Navigation System", "Alloy Wheels", "Roof Rails", "Tow Bar",
}

// IsValidProvince 省份是否在目录中
func IsValidProvince(p string) bool {
	return contains(Provinces, p)
}

// IsValidFeature 配置项是否在目录中
func IsValidFeature(f string) bool {
	return contains(Features, f)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
