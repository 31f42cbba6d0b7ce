package application

import (
	"github.com/blang/semver/v4"
)

// Version 在构建时通过 -ldflags "-X .../application.Version=x.y.z" 注入。
var Version = "0.1.0"

// BuildVersion 解析 Version，允许 "v" 前缀等宽松写法。
func BuildVersion() (semver.Version, error) {
	return semver.ParseTolerant(Version)
}
