package record

// Tag is a label printed on the registration page. It is matched verbatim
// against fragment text.
type Tag string

const (
	TagName  Tag = "姓名"
	TagSex   Tag = "性别"
	TagID    Tag = "公民身份证号"
	TagBirth Tag = "出生日期"
	TagAddr  Tag = "户籍地址"
)

// Field identifies one column of a Record.
type Field string

const (
	FieldName  Field = "name"
	FieldSex   Field = "sex"
	FieldID    Field = "id"
	FieldBirth Field = "birth"
	FieldAddr  Field = "addr"
)

// TagSpec binds a tag to the record field it fills and to the matching
// mode used to locate its value.
type TagSpec struct {
	Tag       Tag
	Field     Field
	Multiline bool
}

// Tags lists every known tag in extraction order.
var Tags = []TagSpec{
	{Tag: TagName, Field: FieldName},
	{Tag: TagSex, Field: FieldSex},
	{Tag: TagID, Field: FieldID},
	{Tag: TagBirth, Field: FieldBirth},
	{Tag: TagAddr, Field: FieldAddr, Multiline: true},
}
