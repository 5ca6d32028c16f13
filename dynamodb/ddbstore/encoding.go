package ddbstore

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key encoding for BadgerDB that preserves the lexicographic order of string keys.
//
// Table: [tableName][0x00][pk][0x00][sk]
// GSI:   [tableName][$gsi:][gsiName][0x00][gsi1pk][0x00][gsi1sk][0x00][pk][0x00][sk]
//
// GSI keys carry the base key so that items sharing GSI keys do not collide.
// Components are escaped so that they never contain the separator.

const (
	keySeparator byte = 0x00
	gsiMarker         = "$gsi:"
)

func (s *Store) tablePrefix() []byte {
	var buf bytes.Buffer
	buf.WriteString(s.def.Name)
	buf.WriteByte(keySeparator)
	return buf.Bytes()
}

func (g *gsiSchema) tablePrefix() []byte {
	var buf bytes.Buffer
	buf.WriteString(g.tableName)
	buf.WriteString(gsiMarker)
	buf.WriteString(g.definition.Name)
	buf.WriteByte(keySeparator)
	return buf.Bytes()
}

// encodeKey encodes a base table key.
func (s *Store) encodeKey(pk table.PrimaryKey) []byte {
	buf := bytes.NewBuffer(s.tablePrefix())
	buf.Write(escapeBytes([]byte(pk.PK)))
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(pk.SK)))
	return buf.Bytes()
}

// partitionPrefix returns the prefix of all base keys in partition pk whose
// sort key starts with skPrefix.
func (s *Store) partitionPrefix(pk, skPrefix string) []byte {
	buf := bytes.NewBuffer(s.tablePrefix())
	buf.Write(escapeBytes([]byte(pk)))
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(skPrefix)))
	return buf.Bytes()
}

// encodeKey encodes the index entry of an item with index key gsiKey and base key base.
func (g *gsiSchema) encodeKey(gsiKey, base table.PrimaryKey) []byte {
	buf := bytes.NewBuffer(g.tablePrefix())
	for i, c := range []string{gsiKey.PK, gsiKey.SK, base.PK, base.SK} {
		if i > 0 {
			buf.WriteByte(keySeparator)
		}
		buf.Write(escapeBytes([]byte(c)))
	}
	return buf.Bytes()
}

// partitionPrefix returns the prefix of all index entries in index partition gsi1pk.
func (g *gsiSchema) partitionPrefix(gsi1pk string) []byte {
	buf := bytes.NewBuffer(g.tablePrefix())
	buf.Write(escapeBytes([]byte(gsi1pk)))
	buf.WriteByte(keySeparator)
	return buf.Bytes()
}

// escapeBytes escapes null bytes (0x00) in the input to preserve separator integrity.
// Uses 0x01 0x01 for literal 0x00, and 0x01 0x02 for literal 0x01.
// The escaping keeps byte order and maps prefixes to prefixes.
func escapeBytes(b []byte) []byte {
	var buf bytes.Buffer
	for _, c := range b {
		switch c {
		case 0x00:
			buf.WriteByte(0x01)
			buf.WriteByte(0x01)
		case 0x01:
			buf.WriteByte(0x01)
			buf.WriteByte(0x02)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

// Item serialization for BadgerDB values. Items are stored in their DynamoDB
// attribute value form so that both backends persist the same layout.

func serializeItem(it item.GenericItem) (map[string]types.AttributeValue, []byte, error) {
	av, err := it.Marshal()
	if err != nil {
		return nil, nil, err
	}
	serializable := make(map[string]serializableAV, len(av))
	for k, v := range av {
		serializable[k] = toSerializable(v)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(serializable); err != nil {
		return nil, nil, fmt.Errorf("encode item: %w", err)
	}
	return av, buf.Bytes(), nil
}

func deserializeItem(data []byte) (item.GenericItem, error) {
	av, err := deserializeAV(data)
	if err != nil {
		return item.GenericItem{}, err
	}
	return item.Unmarshal(av)
}

func deserializeAV(data []byte) (map[string]types.AttributeValue, error) {
	var serializable map[string]serializableAV
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&serializable); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}

	av := make(map[string]types.AttributeValue, len(serializable))
	for k, v := range serializable {
		attr, err := fromSerializable(v)
		if err != nil {
			return nil, fmt.Errorf("decode attribute %q: %w", k, err)
		}
		av[k] = attr
	}
	return av, nil
}

// serializableAV is a gob-encodable representation of AttributeValue
type serializableAV struct {
	Type  string
	Value any
}

func init() {
	gob.Register(map[string]serializableAV{})
	gob.Register([]serializableAV{})
	gob.Register([]string{})
	gob.Register([][]byte{})
}

func toSerializable(av types.AttributeValue) serializableAV {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return serializableAV{Type: "S", Value: v.Value}
	case *types.AttributeValueMemberN:
		return serializableAV{Type: "N", Value: v.Value}
	case *types.AttributeValueMemberB:
		return serializableAV{Type: "B", Value: v.Value}
	case *types.AttributeValueMemberBOOL:
		return serializableAV{Type: "BOOL", Value: v.Value}
	case *types.AttributeValueMemberNULL:
		return serializableAV{Type: "NULL", Value: v.Value}
	case *types.AttributeValueMemberSS:
		return serializableAV{Type: "SS", Value: v.Value}
	case *types.AttributeValueMemberNS:
		return serializableAV{Type: "NS", Value: v.Value}
	case *types.AttributeValueMemberBS:
		return serializableAV{Type: "BS", Value: v.Value}
	case *types.AttributeValueMemberM:
		m := make(map[string]serializableAV, len(v.Value))
		for k, val := range v.Value {
			m[k] = toSerializable(val)
		}
		return serializableAV{Type: "M", Value: m}
	case *types.AttributeValueMemberL:
		l := make([]serializableAV, len(v.Value))
		for i, val := range v.Value {
			l[i] = toSerializable(val)
		}
		return serializableAV{Type: "L", Value: l}
	default:
		panic(fmt.Sprintf("unsupported attribute value type: %T", av))
	}
}

func fromSerializable(sav serializableAV) (types.AttributeValue, error) {
	var ok bool
	var out types.AttributeValue
	switch sav.Type {
	case "S":
		var v string
		v, ok = sav.Value.(string)
		out = &types.AttributeValueMemberS{Value: v}
	case "N":
		var v string
		v, ok = sav.Value.(string)
		out = &types.AttributeValueMemberN{Value: v}
	case "B":
		var v []byte
		v, ok = sav.Value.([]byte)
		out = &types.AttributeValueMemberB{Value: v}
	case "BOOL":
		var v bool
		v, ok = sav.Value.(bool)
		out = &types.AttributeValueMemberBOOL{Value: v}
	case "NULL":
		var v bool
		v, ok = sav.Value.(bool)
		out = &types.AttributeValueMemberNULL{Value: v}
	case "SS":
		var v []string
		v, ok = sav.Value.([]string)
		out = &types.AttributeValueMemberSS{Value: v}
	case "NS":
		var v []string
		v, ok = sav.Value.([]string)
		out = &types.AttributeValueMemberNS{Value: v}
	case "BS":
		var v [][]byte
		v, ok = sav.Value.([][]byte)
		out = &types.AttributeValueMemberBS{Value: v}
	case "M":
		var v map[string]serializableAV
		if v, ok = sav.Value.(map[string]serializableAV); ok {
			m := make(map[string]types.AttributeValue, len(v))
			for k, e := range v {
				attr, err := fromSerializable(e)
				if err != nil {
					return nil, err
				}
				m[k] = attr
			}
			out = &types.AttributeValueMemberM{Value: m}
		}
	case "L":
		var v []serializableAV
		if v, ok = sav.Value.([]serializableAV); ok {
			l := make([]types.AttributeValue, len(v))
			for i, e := range v {
				attr, err := fromSerializable(e)
				if err != nil {
					return nil, err
				}
				l[i] = attr
			}
			out = &types.AttributeValueMemberL{Value: l}
		}
	default:
		return nil, fmt.Errorf("unsupported serializable type: %s", sav.Type)
	}
	if !ok {
		return nil, fmt.Errorf("serializable type %s holds %T", sav.Type, sav.Value)
	}
	return out, nil
}
