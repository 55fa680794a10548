package respond

// ListMemberEntry 列表成员条目，携带成员当前状态签名
type ListMemberEntry struct {
	Member string `json:"member"`
	Status string `json:"status"`
}

// ListMembersRespond 查看列表响应
type ListMembersRespond struct {
	Kind    string            `json:"kind"`
	Members []ListMemberEntry `json:"members"`
}
