// Package gpkg reads the features of one GeoPackage table as a processing.Source.
package gpkg

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-spatial/geom/encoding/gpkg"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/processing"
	"github.com/pkg/errors"
)

type featureGPKG struct {
	id         any
	properties map[string]any
	blob       []byte
}

func (f featureGPKG) ID() any {
	return f.id
}

func (f featureGPKG) Properties() map[string]any {
	return f.properties
}

// Face is always 0, GeoPackages hold plain longitude/latitude.
func (f featureGPKG) Face() uint8 {
	return 0
}

func (f featureGPKG) Geometry() (geometry.Geometry, error) {
	if f.blob == nil {
		return nil, nil
	}
	sb, err := gpkg.DecodeGeometry(f.blob)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the geometry")
	}
	if sb.Geometry == nil {
		return nil, nil
	}
	return geometry.FromGeom(sb.Geometry)
}

type column struct {
	cid       int
	name      string
	ctype     string
	notnull   int
	dfltValue *string
	pk        int
}

type Table struct {
	Name    string
	columns []column
	gcolumn string
	gtype   gpkg.GeometryType
	srsID   int
}

// GeometryType as registered in gpkg_geometry_columns.
func (t Table) GeometryType() gpkg.GeometryType {
	return t.gtype
}

func (t Table) SRSID() int {
	return t.srsID
}

// geometryTypeFromString returns the numeric value of a geometry string
func geometryTypeFromString(geometrytype string) gpkg.GeometryType {
	switch strings.ToUpper(geometrytype) {
	case "POINT":
		return gpkg.Point
	case "LINESTRING":
		return gpkg.Linestring
	case "POLYGON":
		return gpkg.Polygon
	case "MULTIPOINT":
		return gpkg.MultiPoint
	case "MULTILINESTRING":
		return gpkg.MultiLinestring
	case "MULTIPOLYGON":
		return gpkg.MultiPolygon
	case "GEOMETRYCOLLECTION":
		return gpkg.GeometryCollection
	default:
		return gpkg.Geometry
	}
}

type SourceGeopackage struct {
	Table  Table
	handle *gpkg.Handle
}

// SRSIDWGS84 is the only spatial reference accepted, longitude/latitude on WGS 84.
const SRSIDWGS84 = 4326

// Open opens the GeoPackage and selects table, the first feature table when
// table is empty. Tables not in SRSIDWGS84 are refused.
func Open(file string, table string) (*SourceGeopackage, error) {
	handle, err := gpkg.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open GeoPackage %s", file)
	}
	source := &SourceGeopackage{handle: handle}
	tables, err := source.GetTableInfo()
	if err != nil {
		handle.Close()
		return nil, err
	}
	if source.Table, err = selectTable(tables, table); err != nil {
		handle.Close()
		return nil, errors.Wrapf(err, "GeoPackage %s", file)
	}
	return source, nil
}

func selectTable(tables []Table, name string) (Table, error) {
	for _, t := range tables {
		if name != "" && t.Name != name {
			continue
		}
		if t.srsID != SRSIDWGS84 {
			return Table{}, errors.Errorf("table %s has srs_id %d, expected %d", t.Name, t.srsID, SRSIDWGS84)
		}
		return t, nil
	}
	return Table{}, errors.Errorf("no feature table %q", name)
}

func (source SourceGeopackage) Close() error {
	return source.handle.Close()
}

func (source SourceGeopackage) ReadFeatures(features chan<- processing.Feature) error {
	rows, err := source.handle.Query(source.Table.selectSQL())
	if err != nil {
		return errors.Wrapf(err, "could not query table %s", source.Table.Name)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return errors.Wrap(err, "could not read the columns")
	}
	pk := source.Table.pkColumn()

	for rows.Next() {
		vals := make([]any, len(cols))
		valPtrs := make([]any, len(cols))
		for i := 0; i < len(cols); i++ {
			valPtrs[i] = &vals[i]
		}
		if err = rows.Scan(valPtrs...); err != nil {
			return errors.Wrap(err, "could not read row values")
		}

		f := featureGPKG{properties: make(map[string]any, len(cols)-1)}
		for i, colName := range cols {
			if colName == source.Table.gcolumn {
				if b, ok := vals[i].([]byte); ok {
					f.blob = b
				}
				continue
			}
			v, err := toProperty(vals[i])
			if err != nil {
				return errors.Wrapf(err, "column %s", colName)
			}
			if colName == pk {
				f.id = v
			}
			f.properties[colName] = v
		}
		features <- f
	}
	return errors.Wrap(rows.Err(), "could not iterate rows")
}

// toProperty converts an sqlite column value into a JSON friendly one
func toProperty(value any) (any, error) {
	switch v := value.(type) {
	case []byte:
		return string(v), nil
	case int64, float64, string, bool, nil:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		return nil, fmt.Errorf("unexpected type for sqlite column data: %T", v)
	}
}

func (source SourceGeopackage) GetTableInfo() ([]Table, error) {
	query := `SELECT table_name, column_name, geometry_type_name, srs_id FROM gpkg_geometry_columns;`
	rows, err := source.handle.Query(query)
	if err != nil {
		return nil, errors.Wrapf(err, "could not query %s", query)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		var gtype string
		if err := rows.Scan(&t.Name, &t.gcolumn, &gtype, &t.srsID); err != nil {
			return nil, errors.Wrap(err, "could not read the source table information")
		}
		t.gtype = geometryTypeFromString(gtype)
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read the source table information")
	}
	for i := range tables {
		if tables[i].columns, err = getTableColumns(source.handle, tables[i].Name); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

func (t Table) pkColumn() string {
	for _, c := range t.columns {
		if c.pk == 1 {
			return c.name
		}
	}
	return ""
}

// selectSQL build a SELECT statement based on the table and columns
// used for reading the source features
func (t Table) selectSQL() string {
	var csql []string
	for _, c := range t.columns {
		csql = append(csql, `"`+c.name+`"`)
	}
	return `SELECT ` + strings.Join(csql, `,`) + ` FROM "` + t.Name + `";`
}

// getTableColumns collects the column information of a given table
func getTableColumns(h *gpkg.Handle, table string) ([]column, error) {
	query := fmt.Sprintf(`PRAGMA table_info('%v');`, table)
	rows, err := h.Query(query)
	if err != nil {
		return nil, errors.Wrapf(err, "could not query %s", query)
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var column column
		err := rows.Scan(&column.cid, &column.name, &column.ctype, &column.notnull, &column.dfltValue, &column.pk)
		if err != nil {
			return nil, errors.Wrap(err, "could not get the column information")
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}
