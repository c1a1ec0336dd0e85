package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations for the SQLite
// backend. Each migration's version must be sequential starting from 1.
//
// Column names match the canonical spreadsheet header so that rows move
// between backends unchanged. Integer and money columns use numeric
// affinity; everything else is text.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS work_orders (
	position                INTEGER PRIMARY KEY,
	Numero_OS               TEXT,
	Data_OS                 TEXT,
	Hora_OS                 TEXT,
	Nome_Cliente            TEXT,
	Endereco_Cliente        TEXT,
	Numero_Imovel_Cliente   INTEGER,
	Bairro_Cliente          TEXT,
	Cidade_Cliente          TEXT,
	UF_Cliente              TEXT,
	CEP_Cliente             TEXT,
	Telefone_Cliente        TEXT,
	CPF_CNPJ_Cliente        TEXT,
	Placa_Veiculo           TEXT,
	Marca_Veiculo           TEXT,
	Modelo_Veiculo          TEXT,
	Cor_Veiculo             TEXT,
	Ano_Veiculo             INTEGER,
	KM_Atual_Veiculo        INTEGER,
	Combustivel_Veiculo     TEXT,
	Box_Veiculo             TEXT,
	Problema_Informado      TEXT,
	Problema_Constatado     TEXT,
	Servico_Executado       TEXT,
	Detalhes_Itens          TEXT,
	Total_Itens             REAL,
	Deslocamento            REAL,
	Desconto_Geral          REAL,
	Valor_Total_Final       REAL,
	Responsavel             TEXT,
	Situacao_Atual          TEXT,
	Condicoes_Pagamento     TEXT
);

CREATE INDEX IF NOT EXISTS idx_work_orders_numero ON work_orders(Numero_OS);

CREATE TABLE IF NOT EXISTS table_revision (
	id       INTEGER PRIMARY KEY CHECK(id = 1),
	revision INTEGER NOT NULL
);

INSERT INTO table_revision (id, revision) VALUES (1, 0);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE work_orders RENAME COLUMN Numero_Imovel_Cliente TO Numero_Imovel_Cliente_v1;
ALTER TABLE work_orders ADD COLUMN Numero_Imovel_Cliente TEXT;
UPDATE work_orders SET Numero_Imovel_Cliente = CAST(Numero_Imovel_Cliente_v1 AS TEXT);
ALTER TABLE work_orders DROP COLUMN Numero_Imovel_Cliente_v1;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
