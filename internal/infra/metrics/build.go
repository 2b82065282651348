package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric with labels for version, commit hash and link mode.",
	},
	[]string{"version", "commit", "link_mode"},
)

func SetBuildInfo(version, commit, linkMode string) {
	buildInfo.WithLabelValues(version, commit, norm(linkMode)).Set(1)
}
