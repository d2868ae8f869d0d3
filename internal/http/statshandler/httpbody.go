package statshandler

type StatsResponse struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}
