package catalog

import (
	proto "github.com/gogo/protobuf/proto"
)

// MotifRecord is the value stored for each motif class.
//
// Form is the class's canonical form and Expr is the graph expr of the class in canonical order.
// Count is the census count summed over every merge and Sources is the number of merged tables the class occurred in.
type MotifRecord struct {
	Form     []byte `protobuf:"bytes,1,opt,name=Form,proto3" json:"Form,omitempty"`
	Expr     string `protobuf:"bytes,2,opt,name=Expr,proto3" json:"Expr,omitempty"`
	Count    int64  `protobuf:"varint,3,opt,name=Count,proto3" json:"Count,omitempty"`
	NumNodes int32  `protobuf:"varint,4,opt,name=NumNodes,proto3" json:"NumNodes,omitempty"`
	NumEdges int32  `protobuf:"varint,5,opt,name=NumEdges,proto3" json:"NumEdges,omitempty"`
	Sources  int64  `protobuf:"varint,6,opt,name=Sources,proto3" json:"Sources,omitempty"`
}

func (m *MotifRecord) Reset()         { *m = MotifRecord{} }
func (m *MotifRecord) String() string { return proto.CompactTextString(m) }
func (*MotifRecord) ProtoMessage()    {}

// CatalogState is stored under the catalog's state key.
type CatalogState struct {
	MajorVers int32 `protobuf:"varint,1,opt,name=MajorVers,proto3" json:"MajorVers,omitempty"`
	MinorVers int32 `protobuf:"varint,2,opt,name=MinorVers,proto3" json:"MinorVers,omitempty"`
	NumMotifs int64 `protobuf:"varint,3,opt,name=NumMotifs,proto3" json:"NumMotifs,omitempty"`
	NumMerges int64 `protobuf:"varint,4,opt,name=NumMerges,proto3" json:"NumMerges,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}
