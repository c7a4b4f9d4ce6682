package post

type InCreateComment struct {
	Content *string `json:"content"`
}

type InVote struct {
	OptionID *uint `json:"option_id"`
}
