package sqlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDDL_CreateTable(t *testing.T) {
	stmt := "CREATE TABLE `users` (`id` bigint NOT NULL AUTO_INCREMENT, `price` decimal(10,2) NOT NULL, " +
		"`note` varchar(20) NOT NULL DEFAULT 'a, (b)', PRIMARY KEY (`id`)) CHARSET utf8mb4"
	want := "CREATE TABLE `users` (\n" +
		"    `id` bigint NOT NULL AUTO_INCREMENT,\n" +
		"    `price` decimal(10,2) NOT NULL,\n" +
		"    `note` varchar(20) NOT NULL DEFAULT 'a, (b)',\n" +
		"    PRIMARY KEY (`id`)\n" +
		") CHARSET utf8mb4"
	assert.Equal(t, want, DDL.Format(stmt))
}

func TestDDL_CreateTableQuotedComma(t *testing.T) {
	stmt := `CREATE TABLE "odd, name" ("a" integer, "b,c" text)`
	want := "CREATE TABLE \"odd, name\" (\n    \"a\" integer,\n    \"b,c\" text\n)"
	assert.Equal(t, want, DDL.Format(stmt))
}

func TestDDL_AlterTable(t *testing.T) {
	tests := []struct {
		name, stmt, want string
	}{
		{
			name: "single clause",
			stmt: "ALTER TABLE `a` ADD CONSTRAINT `a_b` FOREIGN KEY (`b_id`) REFERENCES `b` (`id`)",
			want: "ALTER TABLE `a`\n    ADD CONSTRAINT `a_b` FOREIGN KEY (`b_id`) REFERENCES `b` (`id`)",
		},
		{
			name: "qualified with clauses",
			stmt: `ALTER TABLE "public"."a" DROP CONSTRAINT "x", ADD COLUMN "c" integer`,
			want: "ALTER TABLE \"public\".\"a\"\n    DROP CONSTRAINT \"x\",\n    ADD COLUMN \"c\" integer",
		},
		{
			name: "if exists",
			stmt: `alter table if exists a drop constraint x`,
			want: "alter table if exists a\n    drop constraint x",
		},
		{
			name: "no clauses",
			stmt: "ALTER TABLE a",
			want: "ALTER TABLE a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DDL.Format(tt.stmt))
		})
	}
}

func TestDDL_Passthrough(t *testing.T) {
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS `users`",
		`CREATE UNIQUE INDEX "users_email_key" ON "users" ("email")`,
		"create table broken (",
	} {
		assert.Equal(t, stmt, DDL.Format("  "+stmt+"\n"))
	}
}

func TestDDL_Stateless(t *testing.T) {
	stmt := "CREATE TABLE t (a int, b int)"
	first := DDL.Format(stmt)
	DDL.Format("CREATE TABLE other (x text)")
	assert.Equal(t, first, DDL.Format(stmt))
}

func TestNewDDL_Indent(t *testing.T) {
	f := NewDDL("\t")
	assert.Equal(t, "CREATE TABLE t (\n\ta int\n)", f.Format("CREATE TABLE t (a int)"))
}

func TestNone(t *testing.T) {
	assert.Equal(t, "CREATE TABLE t (a int)", None.Format(" CREATE TABLE t (a int) \n"))
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc(func(s string) string { return "-- " + s })
	assert.Equal(t, "-- x", f.Format("x"))
}
