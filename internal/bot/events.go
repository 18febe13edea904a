package bot

// Author is the user who wrote a comment.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Comment is the submitted comment.
type Comment struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Post is the post a comment was left on.
type Post struct {
	ID        string `json:"id,omitempty"`
	Permalink string `json:"permalink"`
}

// CommentEvent is delivered for every new comment in a community.
type CommentEvent struct {
	Community string  `json:"subreddit"`
	Author    Author  `json:"author"`
	Comment   Comment `json:"comment"`
	Post      Post    `json:"post"`
}

// InstallEvent is delivered once when the bot is added to a community.
type InstallEvent struct {
	Community string `json:"subreddit"`
}

// UpgradeEvent is delivered when a new bot version is rolled out to a community.
type UpgradeEvent struct {
	Community string `json:"subreddit"`
}

// MenuAction is a moderator pressing "Blacklist user" on a comment.
type MenuAction struct {
	Community  string `json:"subreddit"`
	Moderator  string `json:"moderator,omitempty"`
	TargetUser string `json:"targetUser"`
}
